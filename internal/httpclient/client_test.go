package httpclient

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AppliesDefaultsWhenUnset(t *testing.T) {
	client := New(Config{})
	require.NotNil(t, client)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, DefaultMaxIdleConns, transport.MaxIdleConns)
	assert.Equal(t, DefaultMaxIdleConnsPerHost, transport.MaxIdleConnsPerHost)
	assert.Equal(t, DefaultIdleConnTimeout, transport.IdleConnTimeout)
	assert.Equal(t, DefaultResponseHeaderTimeout, transport.ResponseHeaderTimeout)
	assert.Equal(t, DefaultTLSHandshakeTimeout, transport.TLSHandshakeTimeout)
}

func TestNew_PreservesExplicitValues(t *testing.T) {
	client := New(Config{
		Timeout:             5 * time.Second,
		MaxIdleConns:        7,
		MaxIdleConnsPerHost: 2,
	})

	assert.Equal(t, 5*time.Second, client.Timeout)
	transport := client.Transport.(*http.Transport)
	assert.Equal(t, 7, transport.MaxIdleConns)
	assert.Equal(t, 2, transport.MaxIdleConnsPerHost)
}
