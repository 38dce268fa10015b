package geocode_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photosort/internal/faults"
	"photosort/internal/geocode"
	"photosort/internal/logging"
)

const headerContentType = "Content-Type"

func TestParseAddress_Aliases(t *testing.T) {
	body := []byte(`{"place_id":1,"address":{"village":"Springdale","county":"Washington County","region":"Utah","country":"United States"}}`)

	addr, err := geocode.ParseAddress(body)
	require.NoError(t, err)
	assert.Equal(t, "Springdale", addr.City)
	assert.Equal(t, "Utah", addr.State)
	assert.Equal(t, "Washington County", addr.County)
	assert.Equal(t, "United States", addr.Country)
}

func TestParseAddress_PrefersPrimaryKeys(t *testing.T) {
	body := []byte(`{"address":{"city":"Paris","town":"Other","state":"Ile-de-France","province":"Ignored","country":"France"}}`)

	addr, err := geocode.ParseAddress(body)
	require.NoError(t, err)
	assert.Equal(t, "Paris", addr.City)
	assert.Equal(t, "Ile-de-France", addr.State)
}

func TestParseAddress_Errors(t *testing.T) {
	cases := map[string]string{
		"invalid":    `{not json`,
		"error":      `{"error":"Unable to geocode"}`,
		"error obj":  `{"error":{"message":"Invalid key"}}`,
		"no address": `{"place_id":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := geocode.ParseAddress([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLocationIQ_ReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reverse.php", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "37.7749", q.Get("lat"))
		assert.Equal(t, "-122.4194", q.Get("lon"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "10", q.Get("zoom"))
		w.Header().Set(headerContentType, "application/json")
		_, _ = w.Write([]byte(`{"address":{"city":"San Francisco","state":"California","country":"United States"}}`))
	}))
	defer srv.Close()

	p := geocode.NewLocationIQ("test-key", srv.URL+"/", srv.Client())
	addr, err := p.ReverseGeocode(context.Background(), 37.7749, -122.4194)
	require.NoError(t, err)
	assert.Equal(t, "San Francisco", addr.City)
	assert.Equal(t, "locationiq", p.Name())
}

func TestLocationIQ_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid key"}`))
	}))
	defer srv.Close()

	p := geocode.NewLocationIQ("bad", srv.URL, srv.Client())
	_, err := p.ReverseGeocode(context.Background(), 1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrGeocodeProvider))
	assert.Contains(t, err.Error(), "status 401")
}

func TestNominatim_SendsUserAgentAndLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "photo-organizer/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "en", r.URL.Query().Get("accept-language"))
		w.Header().Set(headerContentType, "application/json")
		_, _ = w.Write([]byte(`{"address":{"town":"Moab","state":"Utah","country":"United States"}}`))
	}))
	defer srv.Close()

	p := geocode.NewNominatim(srv.URL, "photo-organizer/1.0", srv.Client())
	addr, err := p.ReverseGeocode(context.Background(), 38.57, -109.55)
	require.NoError(t, err)
	assert.Equal(t, "Moab", addr.City)
	assert.Equal(t, "Utah", addr.State)
}

func TestLimiter_SpacesCalls(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock := clockwork.NewFakeClock()
	limiter := geocode.NewLimiter(time.Second, clock)

	require.NoError(t, limiter.Wait(ctx), "first call must not wait")

	done := make(chan error, 1)
	go func() { done <- limiter.Wait(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	select {
	case <-done:
		t.Fatal("second call returned before the interval elapsed")
	default:
	}

	clock.Advance(time.Second)
	require.NoError(t, <-done)
}

func TestLimiter_NoWaitAfterInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := geocode.NewLimiter(time.Second, clock)

	require.NoError(t, limiter.Wait(context.Background()))
	clock.Advance(2 * time.Second)
	require.NoError(t, limiter.Wait(context.Background()))
}

func TestLimiter_CancelWhileWaiting(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := geocode.NewLimiter(time.Minute, clock)
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- limiter.Wait(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

type stubProvider struct {
	name  string
	addr  geocode.Address
	err   error
	block bool
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) ReverseGeocode(ctx context.Context, _, _ float64) (geocode.Address, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return geocode.Address{}, ctx.Err()
	}
	return s.addr, s.err
}

func newChain(timeout time.Duration, providers ...geocode.Provider) *geocode.Chain {
	return geocode.NewChain(providers, geocode.NewLimiter(0, nil), timeout, logging.NewNop(), nil)
}

func TestChain_FallsThroughOnError(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("boom")}
	second := &stubProvider{name: "second", addr: geocode.Address{Country: "France"}}

	addr, name, err := newChain(time.Second, first, second).Lookup(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "second", name)
	assert.Equal(t, "France", addr.Country)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChain_SkipsEmptyAddress(t *testing.T) {
	first := &stubProvider{name: "first"}
	second := &stubProvider{name: "second", addr: geocode.Address{State: "Utah"}}

	_, name, err := newChain(time.Second, first, second).Lookup(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "second", name)
}

func TestChain_StopsAtFirstSuccess(t *testing.T) {
	first := &stubProvider{name: "first", addr: geocode.Address{Country: "Japan"}}
	second := &stubProvider{name: "second", addr: geocode.Address{Country: "France"}}

	addr, _, err := newChain(time.Second, first, second).Lookup(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Japan", addr.Country)
	assert.Equal(t, 0, second.calls)
}

func TestChain_TimeoutFallsThrough(t *testing.T) {
	slow := &stubProvider{name: "slow", block: true}
	fast := &stubProvider{name: "fast", addr: geocode.Address{Country: "Peru"}}

	_, name, err := newChain(20*time.Millisecond, slow, fast).Lookup(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "fast", name)
}

func TestChain_AllFail(t *testing.T) {
	chain := newChain(time.Second,
		&stubProvider{name: "a", err: errors.New("a down")},
		&stubProvider{name: "b", err: errors.New("b down")},
	)
	_, _, err := chain.Lookup(context.Background(), 1, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, geocode.ErrNoAddress)
	assert.ErrorIs(t, err, faults.ErrGeocodeProvider)
	assert.Equal(t, []string{"a", "b"}, chain.Providers())
}

func TestChain_CanceledContext(t *testing.T) {
	p := &stubProvider{name: "a", addr: geocode.Address{Country: "Peru"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newChain(time.Second, p).Lookup(ctx, 1, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, p.calls)
}
