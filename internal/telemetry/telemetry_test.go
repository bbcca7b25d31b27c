package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_IndependentRegistries(t *testing.T) {
	p1 := NewProvider()
	p2 := NewProvider()
	require.NotNil(t, p1.Metrics)
	require.NotNil(t, p2.Metrics)

	p1.Metrics.RunsTotal.WithLabelValues("success").Inc()
	p2.Metrics.RunsTotal.WithLabelValues("success").Inc()
}

func TestStartSpan_ReturnsEndableSpan(t *testing.T) {
	p := NewProvider()
	ctx, span := p.StartSpan(context.Background(), "test.step")
	assert.NotNil(t, ctx)
	span.End()
}
