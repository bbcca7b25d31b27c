// Package thumbnail stubs out the thumbnail renderer spec §1 describes
// as an external collaborator "consumed via a single call taking a
// short line of text and producing a file path." The real renderer is
// explicitly out of scope; this package exists only so C9's CLI
// adapter has a concrete path to print for each of a CandidateSet's
// ThumbnailLines.
package thumbnail

import (
	"crypto/sha1"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/creatorstack/strategist/internal/errorkit"
)

const (
	width  = 1280
	height = 720
)

// Renderer writes a placeholder PNG per line of text into dir,
// returning the path it wrote. It never inspects font metrics or lays
// out text — the fill color is derived from the text itself so that
// repeated runs against the same line produce the same file.
type Renderer struct {
	Dir string
}

// New returns a Renderer that writes under dir, creating it if needed.
func New(dir string) Renderer {
	return Renderer{Dir: dir}
}

// Render writes a single placeholder PNG for line and returns its path.
func (r Renderer) Render(line string) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", errorkit.Wrap(errorkit.StorageFailure, "failed to create thumbnail directory", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := colorFor(line)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}

	name := fmt.Sprintf("%x.png", sha1.Sum([]byte(line)))
	path := filepath.Join(r.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", errorkit.Wrap(errorkit.StorageFailure, "failed to create thumbnail file", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", errorkit.Wrap(errorkit.StorageFailure, "failed to encode thumbnail PNG", err)
	}
	return path, nil
}

// RenderAll renders one placeholder per line, in order, stopping at
// the first failure.
func (r Renderer) RenderAll(lines []string) ([]string, error) {
	paths := make([]string, 0, len(lines))
	for _, line := range lines {
		path, err := r.Render(line)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// colorFor derives a deterministic fill color from line's hash so
// distinct thumbnail lines are visually distinguishable without any
// real rendering.
func colorFor(line string) color.RGBA {
	sum := sha1.Sum([]byte(line))
	return color.RGBA{R: sum[0], G: sum[1], B: sum[2], A: 0xff}
}
