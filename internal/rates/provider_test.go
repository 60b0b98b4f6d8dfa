package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_Latest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","rates":{"EUR":0.9,"BRL":5.1234,"JPY":147.03}}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second)
	table, err := provider.Latest(context.Background(), "USD")
	require.NoError(t, err)

	assert.Equal(t, "USD", table.Base)
	assert.Equal(t, "0.9", table.Rates["EUR"].String())
	assert.Equal(t, "5.1234", table.Rates["BRL"].String())
	assert.Equal(t, "147.03", table.Rates["JPY"].String())
	assert.False(t, table.FetchedAt.IsZero())
}

func TestHTTPProvider_Latest_NormalizesBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EUR", r.URL.Query().Get("base"))
		w.Write([]byte(`{"base":"eur","rates":{"USD":1.11}}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second)
	table, err := provider.Latest(context.Background(), " eur ")
	require.NoError(t, err)
	assert.Equal(t, "EUR", table.Base)
	assert.Equal(t, "1.11", table.Rates["USD"].String())
}

func TestHTTPProvider_Latest_InvalidBase(t *testing.T) {
	provider := NewHTTPProvider("http://localhost:0", 5*time.Second)

	_, err := provider.Latest(context.Background(), "DOLLARS")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCurrency))
}

func TestHTTPProvider_Latest_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second)
	_, err := provider.Latest(context.Background(), "USD")
	require.Error(t, err)
}

func TestHTTPProvider_Latest_MalformedRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","rates":{"EUR":"not-a-number"}}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second)
	_, err := provider.Latest(context.Background(), "USD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
}

func TestHTTPProvider_Latest_StringRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Providers that stringify decimals for precision must still parse.
		w.Write([]byte(`{"base":"USD","rates":{"EUR":"0.90","BRL":"5.123456789012345678"}}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second)
	table, err := provider.Latest(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "0.90", table.Rates["EUR"].StringFixed(2))
	assert.Equal(t, "5.123456789012345678", table.Rates["BRL"].String())
}
