// Package httpserver implements the local HTTP playground (C9, spec
// §6): a gin router bound to loopback only, exposing the analysis
// pipeline and the Strategy Store over HTTP for local tools and the
// optional UI.
package httpserver

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/creatorstack/strategist/internal/errorkit"
	"github.com/creatorstack/strategist/internal/health"
	"github.com/creatorstack/strategist/internal/logger"
	"github.com/creatorstack/strategist/internal/model"
	"github.com/creatorstack/strategist/internal/pipeline"
	"github.com/creatorstack/strategist/internal/store"
	"github.com/creatorstack/strategist/internal/telemetry"
)

const corsMaxAge = 12 * time.Hour

// multipart form field names accepted by POST /analyze.
const (
	fieldGoal         = "goal"
	fieldAudience     = "audience"
	fieldTone         = "tone"
	fieldLanguage     = "language_hint"
	fieldCreatorFile  = "creator_csv"
	fieldCompetitor   = "competitor_csv" // repeatable: one or more files may share this field name
	maxUploadMemoryMB = 64 << 20
)

// NewRouter builds the gin engine for the local playground. It binds
// only to loopback addresses by convention of the caller (spec §6);
// this router itself does not enforce the bind address.
func NewRouter(coord *pipeline.Coordinator, strategies *store.Store, telemetryProvider *telemetry.Provider, log logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           corsMaxAge,
	}))

	checker := health.NewChecker()
	checker.Register(health.NewCheck("storage", func(ctx context.Context) error {
		return strategies.Ping()
	}))
	router.GET("/health", func(c *gin.Context) {
		report := checker.Run(c.Request.Context())
		status := http.StatusOK
		if report.Status != health.StatusHealthy {
			status = http.StatusOK // degraded storage still serves reads; analyze/C7 surfaces the real failure
		}
		c.JSON(status, report)
	})

	if telemetryProvider != nil {
		router.GET("/metrics", gin.WrapH(telemetryProvider.Handler()))
	}

	router.POST("/analyze", analyzeHandler(coord))
	router.GET("/strategies", listStrategiesHandler(strategies))
	router.GET("/strategies/:id", getStrategyHandler(strategies))

	return router
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
		)
	}
}

func analyzeHandler(coord *pipeline.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(maxUploadMemoryMB); err != nil {
			writeError(c, errorkit.New(errorkit.InvalidInput, "request must be multipart/form-data"))
			return
		}

		tone := model.Tone(c.PostForm(fieldTone))
		if !model.ValidTones[tone] {
			writeError(c, errorkit.New(errorkit.InvalidInput, "tone must be one of the recognized values"))
			return
		}

		creatorCSV, err := readFormFile(c, fieldCreatorFile)
		if err != nil {
			writeError(c, errorkit.New(errorkit.InvalidInput, "creator_csv file is required"))
			return
		}
		competitorCSVs, err := readFormFiles(c, fieldCompetitor)
		if err != nil {
			writeError(c, errorkit.Wrap(errorkit.InvalidInput, "failed to read a competitor_csv file", err))
			return
		}

		input := pipeline.Input{
			Brief: model.Brief{
				Goal:         c.PostForm(fieldGoal),
				Audience:     c.PostForm(fieldAudience),
				Tone:         tone,
				LanguageHint: c.PostForm(fieldLanguage),
			},
			CreatorCSV:     creatorCSV,
			CompetitorCSVs: competitorCSVs,
		}

		strategy, err := coord.Run(c.Request.Context(), input)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, strategy)
	}
}

func listStrategiesHandler(strategies *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("search")
		var (
			results []model.Summary
			err     error
		)
		if query != "" {
			results, err = strategies.Search(query)
		} else {
			results, err = strategies.List()
		}
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func getStrategyHandler(strategies *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		strategy, err := strategies.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, strategy)
	}
}

func readFormFile(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// readFormFiles reads every file uploaded under field, supporting the
// repeated-field-name convention multipart/form-data uses for "one or
// more files" (spec §6's `--competitors PATH,…` CLI flag maps to this
// over HTTP).
func readFormFiles(c *gin.Context, field string) ([][]byte, error) {
	if c.Request.MultipartForm == nil {
		return nil, nil
	}
	headers := c.Request.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}

	files := make([][]byte, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, data)
	}
	return files, nil
}

func writeError(c *gin.Context, err error) {
	kind := errorkit.KindOf(err)
	status := errorkit.HTTPStatus(kind)
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}
