package earned

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptostarter/cryptostarter/internal/logging"
)

const contractPage = `<li>earnedEthWei <i>uint256</i> 2000000000000000000 <i>wei</i></li>`

type mapCache struct {
	values map[string]int64
	sets   int
}

func (c *mapCache) Get(_ context.Context, contract string) (int64, error) {
	v, ok := c.values[contract]
	if !ok {
		return 0, ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, contract string, dollars int64, _ time.Duration) error {
	c.values[contract] = dollars
	c.sets++
	return nil
}

func newService(t *testing.T, handler http.HandlerFunc) (*Service, *mapCache) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cache := &mapCache{values: map[string]int64{}}
	cfg := Config{
		Contract:   "0xabc",
		BaseURL:    srv.URL + "/readContract",
		EtherPrice: 300,
		CacheTTL:   time.Minute,
		Timeout:    time.Second,
	}
	return NewService(cfg, srv.Client(), cache, logging.NewLoggerWithWriter(io.Discard, false)), cache
}

func TestParsePage(t *testing.T) {
	dollars, err := ParsePage([]byte(contractPage), 300)
	require.NoError(t, err)
	assert.Equal(t, int64(600), dollars)

	_, err = ParsePage([]byte("<html>maintenance</html>"), 300)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ParsePage([]byte(`earnedEthWei</i>n/a<i>`), 300)
	assert.Error(t, err)
}

func TestService_Dollars(t *testing.T) {
	t.Run("fetches and caches", func(t *testing.T) {
		var calls atomic.Int32
		s, cache := newService(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, "/readContract", r.URL.Path)
			assert.Equal(t, "0xabc", r.URL.Query().Get("a"))
			_, _ = w.Write([]byte(contractPage))
		})

		assert.Equal(t, int64(600), s.Dollars(context.Background()))
		assert.Equal(t, int64(600), s.Dollars(context.Background()))
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("upstream error yields zero", func(t *testing.T) {
		s, cache := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		assert.Equal(t, int64(0), s.Dollars(context.Background()))
		assert.Zero(t, cache.sets)
	})

	t.Run("unparseable page yields zero", func(t *testing.T) {
		s, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html></html>"))
		})

		assert.Equal(t, int64(0), s.Dollars(context.Background()))
	})
}

func TestReadable(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{123456, "$123 456"},
		{5000, "$5 000"},
		{999, "$ 999"},
		{0, "$   0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Readable(tt.in), tt.in)
	}
}
