// Package store implements the Strategy Store (C7, spec §4.7): it
// persists each pipeline run as an immutable, versioned JSON artifact
// using a write-temp-then-rename strategy so a crash mid-write can
// never leave a corrupt or partially-written file behind, and
// maintains a flat-file index for listing and search.
package store

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/creatorstack/strategist/internal/errorkit"
	"github.com/creatorstack/strategist/internal/model"
)

// idPattern is the closed shape of a strategy id: 8 lowercase hex
// chars, optionally suffixed with a collision counter. Get validates
// against it before building a file path, so a caller-supplied id can
// never escape the storage root via path traversal.
var idPattern = regexp.MustCompile(`^[0-9a-f]{8}(-[0-9]+)?$`)

const indexFileName = "index.json"

// Store persists Strategy artifacts under root. All writes are
// serialized through mu so the index file never sees two concurrent
// read-modify-write cycles race each other.
type Store struct {
	mu   sync.Mutex
	root string
}

// New returns a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errorkit.Wrap(errorkit.StorageFailure, "failed to create storage root", err)
	}
	return &Store{root: dir}, nil
}

// Put assigns a deterministic ID to strategy (derived from its input
// fingerprint and creation time, with a numeric suffix on collision),
// persists it atomically, and appends a Summary to the index.
func (s *Store) Put(strategy model.Strategy) (model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strategy.Version == 0 {
		strategy.Version = model.CurrentVersion
	}

	id, path, err := s.reserveID(strategy.InputFingerprint, strategy.CreatedAt)
	if err != nil {
		return model.Strategy{}, err
	}
	strategy.ID = id

	data, err := json.MarshalIndent(strategy, "", "  ")
	if err != nil {
		return model.Strategy{}, errorkit.Wrap(errorkit.StorageFailure, "failed to encode strategy", err)
	}

	if err := writeAtomic(path, data); err != nil {
		return model.Strategy{}, errorkit.Wrap(errorkit.StorageFailure, "failed to write strategy file", err)
	}

	summary := model.Summary{
		ID:          strategy.ID,
		CreatedAt:   strategy.CreatedAt,
		Goal:        strategy.Brief.Goal,
		Tone:        strategy.Brief.Tone,
		Fingerprint: strategy.InputFingerprint,
		FilePath:    path,
	}
	if err := s.appendIndex(summary); err != nil {
		return model.Strategy{}, err
	}

	return strategy, nil
}

// reserveID derives the base 8-hex id from the fingerprint and
// timestamp, then appends a numeric suffix if that file already
// exists, so two strategies never collide on disk.
func (s *Store) reserveID(fingerprint string, createdAt time.Time) (string, string, error) {
	base := baseID(fingerprint, createdAt)
	id := base
	path := s.pathFor(id)

	for n := 2; fileExists(path); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
		path = s.pathFor(id)
		if n > 10_000 {
			return "", "", errorkit.New(errorkit.StorageFailure, "exhausted id collision suffixes")
		}
	}
	return id, path, nil
}

func baseID(fingerprint string, createdAt time.Time) string {
	h := sha1.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte(createdAt.UTC().Format(time.RFC3339Nano)))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:8]
}

func (s *Store) pathFor(id string) string {
	return filepath.Join(s.root, fmt.Sprintf("strategy-%s.json", id))
}

// Get loads one persisted strategy by ID.
func (s *Store) Get(id string) (model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !idPattern.MatchString(id) {
		return model.Strategy{}, errorkit.New(errorkit.InvalidInput, fmt.Sprintf("malformed strategy id %q", id))
	}

	path := s.pathFor(id)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Strategy{}, errorkit.New(errorkit.InvalidInput, fmt.Sprintf("no strategy with id %q", id))
	}
	if err != nil {
		return model.Strategy{}, errorkit.Wrap(errorkit.StorageFailure, "failed to read strategy file", err)
	}

	var strategy model.Strategy
	if err := json.Unmarshal(data, &strategy); err != nil {
		return model.Strategy{}, errorkit.Wrap(errorkit.StorageFailure, "failed to decode strategy file", err)
	}
	return strategy, nil
}

// List returns index summaries, newest first.
func (s *Store) List() ([]model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIndex()
}

// Search returns index summaries whose goal text contains query,
// case-insensitively, newest first.
func (s *Store) Search(query string) ([]model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}
	query = strings.ToLower(query)
	var matches []model.Summary
	for _, sum := range all {
		if strings.Contains(strings.ToLower(sum.Goal), query) {
			matches = append(matches, sum)
		}
	}
	return matches, nil
}

func (s *Store) readIndex() ([]model.Summary, error) {
	path := filepath.Join(s.root, indexFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errorkit.Wrap(errorkit.StorageFailure, "failed to read index", err)
	}

	var summaries []model.Summary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, errorkit.Wrap(errorkit.StorageFailure, "failed to decode index", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *Store) appendIndex(summary model.Summary) error {
	path := filepath.Join(s.root, indexFileName)
	data, err := os.ReadFile(path)
	var summaries []model.Summary
	if err == nil {
		if unmarshalErr := json.Unmarshal(data, &summaries); unmarshalErr != nil {
			return errorkit.Wrap(errorkit.StorageFailure, "failed to decode index before append", unmarshalErr)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return errorkit.Wrap(errorkit.StorageFailure, "failed to read index before append", err)
	}

	summaries = append(summaries, summary)

	out, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return errorkit.Wrap(errorkit.StorageFailure, "failed to encode index", err)
	}
	if err := writeAtomic(path, out); err != nil {
		return errorkit.Wrap(errorkit.StorageFailure, "failed to write index", err)
	}
	return nil
}

// writeAtomic writes data to a temp file in the same directory as
// path, then renames it over path. Rename is atomic on POSIX
// filesystems, so a reader never observes a partially-written file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Prune is not implemented: retention/pruning is a separate
// housekeeping operation outside this store's scope, and no caller
// currently needs it. It always returns a StorageFailure error.
func (s *Store) Prune(_ time.Duration) error {
	return errorkit.New(errorkit.StorageFailure, "prune is not implemented")
}

// Ping verifies the storage root is still writable, for the /health
// readiness check: a probe file is created and removed under mu so it
// never races a concurrent Put.
func (s *Store) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	probe := filepath.Join(s.root, ".health-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("storage root %s is not writable: %w", s.root, err)
	}
	return os.Remove(probe)
}
