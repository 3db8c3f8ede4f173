package httpclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kroma-labs/resourceful-go/httpclient/mocks"
)

type NetError struct {
	Msg string
}

func (e *NetError) Error() string   { return e.Msg }
func (e *NetError) Timeout() bool   { return false }
func (e *NetError) Temporary() bool { return false }

func TestBreakerConfigPresets(t *testing.T) {
	cfg := DefaultBreakerConfig()
	assert.Equal(t, uint32(1), cfg.MaxRequests)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, uint32(5), cfg.ConsecutiveFailures)
	assert.False(t, cfg.PerHost)
	assert.Nil(t, cfg.Store)

	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	distCfg := DistributedBreakerConfig(store)
	assert.Equal(t, store, distCfg.Store)
	assert.Equal(t, cfg.Interval, distCfg.Interval)
}

func TestBreakerConfig_ReadyToTrip(t *testing.T) {
	st := DefaultBreakerConfig().settings("svc")

	tests := []struct {
		name   string
		counts gobreaker.Counts
		want   bool
	}{
		{
			name:   "given few requests and few failures, then stays closed",
			counts: gobreaker.Counts{Requests: 4, TotalFailures: 2, ConsecutiveFailures: 2},
		},
		{
			name:   "given consecutive failures at limit, then trips",
			counts: gobreaker.Counts{Requests: 5, TotalFailures: 5, ConsecutiveFailures: 5},
			want:   true,
		},
		{
			name:   "given failure ratio over threshold, then trips",
			counts: gobreaker.Counts{Requests: 20, TotalFailures: 10, ConsecutiveFailures: 1},
			want:   true,
		},
		{
			name:   "given low ratio, then stays closed",
			counts: gobreaker.Counts{Requests: 40, TotalFailures: 4, ConsecutiveFailures: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, st.ReadyToTrip(tt.counts))
		})
	}
}

func TestBreakerTransport_RoundTrip(t *testing.T) {
	passThrough := func(req func() (interface{}, error)) (interface{}, error) {
		return req()
	}

	tests := []struct {
		name    string
		mockFn  func(*mocks.CircuitBreaker, *mocks.RoundTripper)
		wantErr assert.ErrorAssertionFunc
		wantSC  int
		errIs   error
	}{
		{
			name: "given successful execution, then returns response",
			mockFn: func(cb *mocks.CircuitBreaker, rt *mocks.RoundTripper) {
				cb.EXPECT().Execute(mock.Anything).RunAndReturn(passThrough).Once()
				rt.EXPECT().RoundTrip(mock.Anything).
					Return(&http.Response{StatusCode: http.StatusOK}, nil).Once()
			},
			wantErr: assert.NoError,
			wantSC:  http.StatusOK,
		},
		{
			name: "given redirect, then counts it as success",
			mockFn: func(cb *mocks.CircuitBreaker, rt *mocks.RoundTripper) {
				cb.EXPECT().Execute(mock.Anything).
					RunAndReturn(func(req func() (interface{}, error)) (interface{}, error) {
						v, err := req()
						assert.NoError(t, err)
						return v, err
					}).Once()
				rt.EXPECT().RoundTrip(mock.Anything).
					Return(&http.Response{StatusCode: http.StatusMovedPermanently}, nil).Once()
			},
			wantErr: assert.NoError,
			wantSC:  http.StatusMovedPermanently,
		},
		{
			name: "given circuit open, then returns ErrOpenState",
			mockFn: func(cb *mocks.CircuitBreaker, _ *mocks.RoundTripper) {
				cb.EXPECT().Execute(mock.Anything).Return(nil, gobreaker.ErrOpenState).Once()
			},
			wantErr: assert.Error,
			errIs:   gobreaker.ErrOpenState,
		},
		{
			name: "given 500, then returns the response",
			mockFn: func(cb *mocks.CircuitBreaker, rt *mocks.RoundTripper) {
				cb.EXPECT().Execute(mock.Anything).RunAndReturn(passThrough).Once()
				rt.EXPECT().RoundTrip(mock.Anything).
					Return(&http.Response{StatusCode: http.StatusInternalServerError}, nil).Once()
			},
			wantErr: assert.NoError,
			wantSC:  http.StatusInternalServerError,
		},
		{
			name: "given network error, then returns error",
			mockFn: func(cb *mocks.CircuitBreaker, rt *mocks.RoundTripper) {
				cb.EXPECT().Execute(mock.Anything).RunAndReturn(passThrough).Once()
				rt.EXPECT().RoundTrip(mock.Anything).
					Return(nil, &NetError{Msg: "network error"}).Once()
			},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBreaker := mocks.NewCircuitBreaker(t)
			mockRT := mocks.NewRoundTripper(t)
			tt.mockFn(mockBreaker, mockRT)

			tr := &circuitBreakerTransport{
				next:       mockRT,
				classifier: DefaultBreakerClassifier,
				cfg:        newConfig(WithServiceName("test-service")),
				name:       "test-service",
				breakers:   map[string]CircuitBreaker{"test-service": mockBreaker},
			}

			req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
			require.NoError(t, err)

			resp, err := tr.RoundTrip(req)
			tt.wantErr(t, err)

			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
			if err == nil {
				require.NotNil(t, resp)
				assert.Equal(t, tt.wantSC, resp.StatusCode)
			}
		})
	}
}

func TestBreakerTransport_PerHost(t *testing.T) {
	mt := NewMockTransport().
		StubFunc(func(r *http.Request) bool { return r.URL.Host == "down.test" },
			http.StatusServiceUnavailable, nil, "").
		StubResponse(http.StatusOK, "ok")

	bc := DefaultBreakerConfig()
	bc.PerHost = true
	bc.ConsecutiveFailures = 2
	client := New(WithMockTransport(mt), WithServiceName("svc"), WithBreakerConfig(bc))

	get := func(uri string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, uri, nil)
		require.NoError(t, err)
		return client.HTTP().Do(req)
	}

	for range 2 {
		resp, err := get("http://down.test/")
		require.NoError(t, err)
		resp.Body.Close()
	}

	_, err := get("http://down.test/")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	resp, err := get("http://up.test/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBreakerTransport_Distributed(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	bc := DistributedBreakerConfig(NewRedisStore(rdb))
	bc.ConsecutiveFailures = 1

	failing := NewMockTransport().StubError(&NetError{Msg: "connection refused"})
	first := New(WithMockTransport(failing), WithServiceName("shared"), WithBreakerConfig(bc))

	req, err := http.NewRequest(http.MethodGet, "http://svc.test/", nil)
	require.NoError(t, err)
	_, err = first.HTTP().Do(req)
	require.Error(t, err)

	// A second client with the same name sees the open state through Redis.
	healthy := NewMockTransport().StubResponse(http.StatusOK, "ok")
	second := New(WithMockTransport(healthy), WithServiceName("shared"), WithBreakerConfig(bc))

	_, err = second.HTTP().Do(req)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, 0, healthy.RequestCount())
}
