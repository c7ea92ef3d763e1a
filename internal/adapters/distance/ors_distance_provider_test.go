package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"waste-sim-service/internal/adapters/cache"
	"waste-sim-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeORS answers matrix calls with 1000 m and 100 s per destination index.
type fakeORS struct {
	calls    atomic.Int32
	failures int32
	status   int

	mu       sync.Mutex
	lastReq  matrixRequest
	authSeen string
}

func (f *fakeORS) seen() (matrixRequest, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq, f.authSeen
}

func (f *fakeORS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := f.calls.Add(1)
	f.mu.Lock()
	f.authSeen = r.Header.Get("Authorization")
	f.mu.Unlock()
	if n <= f.failures {
		http.Error(w, "try later", f.status)
		return
	}

	var req matrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()

	dist := make([]*float64, len(req.Destinations))
	dur := make([]*float64, len(req.Destinations))
	for i, idx := range req.Destinations {
		d, s := float64(idx)*1000.4, float64(idx)*100.2
		dist[i], dur[i] = &d, &s
	}
	_ = json.NewEncoder(w).Encode(matrixResponse{
		Distances: [][]*float64{dist},
		Durations: [][]*float64{dur},
	})
}

func orsSites() (domain.Site, []domain.Site) {
	depot := domain.Site{ID: "DEPOT", Coordinates: domain.Coordinates{Lon: 77.2090, Lat: 28.6139}}
	return depot, []domain.Site{
		{ID: "BIN001", Coordinates: depot.Coordinates.Offset(500, 0)},
		{ID: "BIN002", Coordinates: depot.Coordinates.Offset(0, 800)},
		{ID: "BIN003", Coordinates: depot.Coordinates.Offset(500, 0)},
		{ID: "BIN004", Coordinates: depot.Coordinates},
	}
}

func TestORSProviderGetDistancesUsesMatrixAndCache(t *testing.T) {
	fake := &fakeORS{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c := cache.NewMemoryDistanceCache()
	p, err := NewORSProvider("secret", c, WithORSBaseURL(srv.URL), WithORSProfile("driving-car"))
	require.NoError(t, err)

	depot, bins := orsSites()
	got, err := p.GetDistances(context.Background(), depot, bins)
	require.NoError(t, err)

	req, auth := fake.seen()
	assert.Equal(t, int32(1), fake.calls.Load())
	assert.Equal(t, "secret", auth)
	// BIN001 and BIN003 share a point; BIN004 sits on the depot.
	assert.Len(t, req.Locations, 3)
	assert.Equal(t, []int{0}, req.Sources)

	assert.Equal(t, 1000, got["BIN001"].DistanceMeters)
	assert.Equal(t, 100, got["BIN001"].DurationSeconds)
	assert.Equal(t, got["BIN001"], got["BIN003"])
	assert.Equal(t, 2001, got["BIN002"].DistanceMeters)
	assert.Zero(t, got["BIN004"].DistanceMeters)
	assert.Equal(t, 2, c.Len())

	again, err := p.GetDistances(context.Background(), depot, bins)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), fake.calls.Load(), "cached lookups must not hit the API")
}

func TestORSProviderGetDistance(t *testing.T) {
	srv := httptest.NewServer(&fakeORS{})
	defer srv.Close()

	p, err := NewORSProvider("secret", nil, WithORSBaseURL(srv.URL))
	require.NoError(t, err)

	depot, bins := orsSites()
	r, err := p.GetDistance(context.Background(), depot, bins[1])
	require.NoError(t, err)
	assert.Equal(t, 1000, r.DistanceMeters)

	_, err = p.GetDistance(context.Background(), depot, domain.Site{})
	assert.Error(t, err)
}

func TestORSProviderRetriesTransientFailures(t *testing.T) {
	fake := &fakeORS{failures: 2, status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	p, err := NewORSProvider("secret", nil, WithORSBaseURL(srv.URL), WithORSRetry(3, time.Millisecond))
	require.NoError(t, err)

	depot, bins := orsSites()
	_, err = p.GetDistances(context.Background(), depot, bins[:1])
	require.NoError(t, err)
	assert.Equal(t, int32(3), fake.calls.Load())
}

func TestORSProviderDoesNotRetryClientErrors(t *testing.T) {
	fake := &fakeORS{failures: 5, status: http.StatusForbidden}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	p, err := NewORSProvider("secret", nil, WithORSBaseURL(srv.URL), WithORSRetry(3, time.Millisecond))
	require.NoError(t, err)

	depot, bins := orsSites()
	_, err = p.GetDistances(context.Background(), depot, bins[:1])
	require.Error(t, err)

	var se *statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestORSProviderRespectsCanceledContext(t *testing.T) {
	fake := &fakeORS{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	p, err := NewORSProvider("secret", nil, WithORSBaseURL(srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	depot, bins := orsSites()
	_, err = p.GetDistances(ctx, depot, bins)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fake.calls.Load())
}

func TestNewORSProviderRequiresKey(t *testing.T) {
	_, err := NewORSProvider("  ", nil)
	assert.Error(t, err)
}
