package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecker_AllHealthy(t *testing.T) {
	c := NewChecker()
	c.Register(NewCheck("storage", func(ctx context.Context) error { return nil }))
	c.Register(NewCheck("llm", func(ctx context.Context) error { return nil }))

	report := c.Run(context.Background())
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, "ok", report.Checks["storage"])
	assert.Equal(t, "ok", report.Checks["llm"])
}

func TestChecker_OneFailureDegradesWithoutStoppingOthers(t *testing.T) {
	c := NewChecker()
	c.Register(NewCheck("storage", func(ctx context.Context) error { return errors.New("disk unwritable") }))
	c.Register(NewCheck("llm", func(ctx context.Context) error { return nil }))

	report := c.Run(context.Background())
	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, "disk unwritable", report.Checks["storage"])
	assert.Equal(t, "ok", report.Checks["llm"])
}

func TestChecker_NoChecksIsHealthy(t *testing.T) {
	c := NewChecker()
	report := c.Run(context.Background())
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Empty(t, report.Checks)
}
