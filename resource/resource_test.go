package resource_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kroma-labs/resourceful-go/resource"
	"github.com/kroma-labs/resourceful-go/resource/mocks"
)

const (
	testURI       = "http://www.example.com/redirect/301?http://www.example.com/get"
	redirectedURI = "http://www.example.com/get"
)

func okResponse(t *testing.T) *mocks.Response {
	resp := mocks.NewResponse(t)
	resp.EXPECT().IsRedirect().Return(false).Maybe()
	resp.EXPECT().Code().Return(http.StatusOK).Maybe()
	return resp
}

func redirectResponse(t *testing.T, code int, permanent bool, location ...string) *mocks.Response {
	resp := mocks.NewResponse(t)
	resp.EXPECT().IsRedirect().Return(true).Maybe()
	resp.EXPECT().IsPermanentRedirect().Return(permanent).Maybe()
	resp.EXPECT().Code().Return(code).Maybe()
	resp.EXPECT().Header().Return(map[string][]string{"Location": location}).Maybe()
	return resp
}

func newRequest(t *testing.T, method string, eligible bool, resp resource.Response) *mocks.Request {
	req := mocks.NewRequest(t)
	req.EXPECT().Response().Return(resp, nil).Maybe()
	req.EXPECT().ShouldBeRedirected().Return(eligible).Maybe()
	req.EXPECT().Method().Return(method).Maybe()
	return req
}

func delegateAt(acc resource.Accessor, orig *resource.Resource, uri string) interface{} {
	return mock.MatchedBy(func(r *resource.Resource) bool {
		return r != orig && r.URI() == uri && r.Accessor() == acc
	})
}

func TestNew(t *testing.T) {
	acc := mocks.NewAccessor(t)
	res := resource.New(acc, "http://www.example.com/")

	assert.Equal(t, acc, res.Accessor())
	assert.Equal(t, "http://www.example.com/", res.URI())
	assert.Equal(t, res.EffectiveURI(), res.URI())
	assert.Equal(t, res.EffectiveURI(), res.EffectiveURI())

	_, ok := res.RedirectCallback()
	assert.False(t, ok)
}

func TestResource_OnRedirect(t *testing.T) {
	t.Run("given a callback, then stores and returns it", func(t *testing.T) {
		res := resource.New(mocks.NewAccessor(t), testURI)

		calls := 0
		got := res.OnRedirect(func(resource.Request, resource.Response) error {
			calls++
			return nil
		})
		require.NotNil(t, got)

		stored, ok := res.RedirectCallback()
		require.True(t, ok)
		require.NoError(t, stored(nil, nil))
		assert.Equal(t, 1, calls)
	})

	t.Run("given a second callback, then replaces the first", func(t *testing.T) {
		res := resource.New(mocks.NewAccessor(t), testURI)

		var called string
		res.OnRedirect(func(resource.Request, resource.Response) error {
			called = "first"
			return nil
		})
		res.OnRedirect(func(resource.Request, resource.Response) error {
			called = "second"
			return nil
		})

		stored, ok := res.RedirectCallback()
		require.True(t, ok)
		require.NoError(t, stored(nil, nil))
		assert.Equal(t, "second", called)
	})

	t.Run("given nil, then returns the current callback untouched", func(t *testing.T) {
		res := resource.New(mocks.NewAccessor(t), testURI)

		assert.Nil(t, res.OnRedirect(nil))
		_, ok := res.RedirectCallback()
		assert.False(t, ok)

		var called bool
		res.OnRedirect(func(resource.Request, resource.Response) error {
			called = true
			return nil
		})

		current := res.OnRedirect(nil)
		require.NotNil(t, current)
		require.NoError(t, current(nil, nil))
		assert.True(t, called)

		_, ok = res.RedirectCallback()
		assert.True(t, ok)
	})
}

func TestResource_DoReadRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("given non-redirect response, then returns it unchanged", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		final := okResponse(t)

		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", res, nil).
			Return(newRequest(t, "SOME_METHOD", true, final), nil).Once()

		got, err := res.DoReadRequest(ctx, "SOME_METHOD")
		require.NoError(t, err)
		assert.Same(t, final, got)
		assert.Equal(t, testURI, res.EffectiveURI())
	})

	t.Run("given redirect that should not be followed, then returns the redirect", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		redirect := redirectResponse(t, http.StatusMovedPermanently, true, redirectedURI)

		req := mocks.NewRequest(t)
		req.EXPECT().Response().Return(redirect, nil).Once()
		req.EXPECT().ShouldBeRedirected().Return(false).Once()

		acc.EXPECT().NewRequest(mock.Anything, http.MethodPost, res, nil).Return(req, nil).Once()

		got, err := res.DoReadRequest(ctx, http.MethodPost)
		require.NoError(t, err)
		assert.Same(t, redirect, got)
		assert.Equal(t, testURI, res.EffectiveURI())
	})

	t.Run("given permanent redirect, then adopts location and re-requests itself", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		final := okResponse(t)

		redirect := mocks.NewResponse(t)
		redirect.EXPECT().IsRedirect().Return(true).Once()
		redirect.EXPECT().IsPermanentRedirect().Return(true).Once()
		redirect.EXPECT().Code().Return(http.StatusMovedPermanently).Maybe()
		redirect.EXPECT().Header().Return(map[string][]string{"Location": {redirectedURI}}).Once()

		req := mocks.NewRequest(t)
		req.EXPECT().Response().Return(redirect, nil).Once()
		req.EXPECT().ShouldBeRedirected().Return(true).Once()

		var urisSeen []string
		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", res, nil).
			Run(func(_ context.Context, _ string, r *resource.Resource, _ interface{}) {
				urisSeen = append(urisSeen, r.URI())
			}).
			Return(req, nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", res, nil).
			Run(func(_ context.Context, _ string, r *resource.Resource, _ interface{}) {
				urisSeen = append(urisSeen, r.URI())
			}).
			Return(newRequest(t, "SOME_METHOD", true, final), nil).Once()

		got, err := res.DoReadRequest(ctx, "SOME_METHOD")
		require.NoError(t, err)
		assert.Same(t, final, got)
		assert.Equal(t, redirectedURI, res.EffectiveURI())
		assert.Equal(t, []string{testURI, redirectedURI}, urisSeen)
	})

	t.Run("given temporary redirect, then delegates to a new resource", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		final := okResponse(t)

		redirect := redirectResponse(t, http.StatusFound, false, redirectedURI)
		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", res, nil).
			Return(newRequest(t, "SOME_METHOD", true, redirect), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", delegateAt(acc, res, redirectedURI), nil).
			Return(newRequest(t, "SOME_METHOD", true, final), nil).Once()

		got, err := res.DoReadRequest(ctx, "SOME_METHOD")
		require.NoError(t, err)
		assert.Same(t, final, got)
		assert.Equal(t, testURI, res.EffectiveURI())
	})

	t.Run("given temporary then permanent redirect, then original keeps its uri", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		final := okResponse(t)
		movedURI := "http://www.example.com/moved"

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusTemporaryRedirect, false, redirectedURI)), nil).Once()

		var delegate *resource.Resource
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, delegateAt(acc, res, redirectedURI), nil).
			Run(func(_ context.Context, _ string, r *resource.Resource, _ interface{}) {
				delegate = r
			}).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusPermanentRedirect, true, movedURI)), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, delegateAt(acc, res, movedURI), nil).
			Return(newRequest(t, http.MethodGet, true, final), nil).Once()

		got, err := res.Get(ctx)
		require.NoError(t, err)
		assert.Same(t, final, got)
		assert.Equal(t, testURI, res.EffectiveURI())
		require.NotNil(t, delegate)
		assert.Equal(t, movedURI, delegate.EffectiveURI())
	})
}

func TestResource_DoWriteRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("given non-redirect response, then builds one request with the body", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		final := okResponse(t)

		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", res, "data").
			Return(newRequest(t, "SOME_METHOD", true, final), nil).Once()

		got, err := res.DoWriteRequest(ctx, "SOME_METHOD", "data")
		require.NoError(t, err)
		assert.Same(t, final, got)
		assert.Equal(t, testURI, res.EffectiveURI())
	})

	t.Run("given permanent redirect, then resends the body to the new uri", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		final := okResponse(t)

		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", res, "data").
			Return(newRequest(t, "SOME_METHOD", true,
				redirectResponse(t, http.StatusPermanentRedirect, true, redirectedURI)), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", res, "data").
			Return(newRequest(t, "SOME_METHOD", true, final), nil).Once()

		got, err := res.DoWriteRequest(ctx, "SOME_METHOD", "data")
		require.NoError(t, err)
		assert.Same(t, final, got)
		assert.Equal(t, redirectedURI, res.EffectiveURI())
	})

	t.Run("given temporary redirect, then delegate resends the body", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		final := okResponse(t)

		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", res, "data").
			Return(newRequest(t, "SOME_METHOD", true,
				redirectResponse(t, http.StatusTemporaryRedirect, false, redirectedURI)), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, "SOME_METHOD", delegateAt(acc, res, redirectedURI), "data").
			Return(newRequest(t, "SOME_METHOD", true, final), nil).Once()

		got, err := res.DoWriteRequest(ctx, "SOME_METHOD", "data")
		require.NoError(t, err)
		assert.Same(t, final, got)
		assert.Equal(t, testURI, res.EffectiveURI())
	})
}

func TestResource_PublicMethods(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func(*resource.Resource) (resource.Response, error)
		wantMethod string
		wantBody   interface{}
	}{
		{
			name:       "given Get, then reads with GET",
			call:       func(r *resource.Resource) (resource.Response, error) { return r.Get(ctx) },
			wantMethod: http.MethodGet,
		},
		{
			name:       "given Head, then reads with HEAD",
			call:       func(r *resource.Resource) (resource.Response, error) { return r.Head(ctx) },
			wantMethod: http.MethodHead,
		},
		{
			name:       "given Delete, then reads with DELETE and no body",
			call:       func(r *resource.Resource) (resource.Response, error) { return r.Delete(ctx) },
			wantMethod: http.MethodDelete,
		},
		{
			name: "given Post, then writes with POST",
			call: func(r *resource.Resource) (resource.Response, error) {
				return r.Post(ctx, "Hello from POST!")
			},
			wantMethod: http.MethodPost,
			wantBody:   "Hello from POST!",
		},
		{
			name: "given Put, then writes with PUT",
			call: func(r *resource.Resource) (resource.Response, error) {
				return r.Put(ctx, "Hello from PUT!")
			},
			wantMethod: http.MethodPut,
			wantBody:   "Hello from PUT!",
		},
		{
			name: "given Patch, then writes with PATCH",
			call: func(r *resource.Resource) (resource.Response, error) {
				return r.Patch(ctx, []byte("patch"))
			},
			wantMethod: http.MethodPatch,
			wantBody:   []byte("patch"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := mocks.NewAccessor(t)
			res := resource.New(acc, "http://www.example.com/")
			final := okResponse(t)

			acc.EXPECT().NewRequest(mock.Anything, tt.wantMethod, res, tt.wantBody).
				Return(newRequest(t, tt.wantMethod, true, final), nil).Once()

			got, err := tt.call(res)
			require.NoError(t, err)
			assert.Same(t, final, got)
		})
	}
}

func TestResource_RedirectCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("given a callback, then yields request and redirect response once per hop", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		final := okResponse(t)
		redirect := redirectResponse(t, http.StatusMovedPermanently, true, redirectedURI)
		redirectReq := newRequest(t, http.MethodGet, true, redirect)

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).Return(redirectReq, nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true, final), nil).Once()

		type hop struct {
			req  resource.Request
			resp resource.Response
			uri  string
		}
		var hops []hop
		res.OnRedirect(func(req resource.Request, resp resource.Response) error {
			hops = append(hops, hop{req: req, resp: resp, uri: res.EffectiveURI()})
			return nil
		})

		_, err := res.Get(ctx)
		require.NoError(t, err)
		require.Len(t, hops, 1)
		assert.Same(t, redirectReq, hops[0].req)
		assert.Same(t, redirect, hops[0].resp)
		assert.Equal(t, testURI, hops[0].uri, "callback runs before the redirect is followed")
	})

	t.Run("given temporary redirects, then the delegate calls the same callback", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		secondURI := "http://www.example.com/second"

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusFound, false, redirectedURI)), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, delegateAt(acc, res, redirectedURI), nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusFound, false, secondURI)), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, delegateAt(acc, res, secondURI), nil).
			Return(newRequest(t, http.MethodGet, true, okResponse(t)), nil).Once()

		calls := 0
		res.OnRedirect(func(resource.Request, resource.Response) error {
			calls++
			return nil
		})

		_, err := res.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("given no redirect, then callback is not called", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true, okResponse(t)), nil).Once()

		called := false
		res.OnRedirect(func(resource.Request, resource.Response) error {
			called = true
			return nil
		})

		_, err := res.Get(ctx)
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("given callback error, then aborts and returns it", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		wantErr := errors.New("callback refused")

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusMovedPermanently, true, redirectedURI)), nil).Once()

		res.OnRedirect(func(resource.Request, resource.Response) error { return wantErr })

		got, err := res.Get(ctx)
		require.ErrorIs(t, err, wantErr)
		assert.Nil(t, got)
		assert.Equal(t, testURI, res.EffectiveURI())
	})
}

func TestResource_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("given request construction fails, then error propagates", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		wantErr := errors.New("bad uri")

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).Return(nil, wantErr).Once()

		_, err := res.Get(ctx)
		assert.Same(t, wantErr, err)
	})

	t.Run("given response fails, then error propagates", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)
		wantErr := errors.New("connection refused")

		req := mocks.NewRequest(t)
		req.EXPECT().Response().Return(nil, wantErr).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodPut, res, "data").Return(req, nil).Once()

		_, err := res.Put(ctx, "data")
		assert.Same(t, wantErr, err)
	})

	t.Run("given redirect without location, then returns ErrMissingLocation", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusFound, false)), nil).Once()

		_, err := res.Get(ctx)
		assert.ErrorIs(t, err, resource.ErrMissingLocation)
	})

	t.Run("given relative location, then resolves against the effective uri", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, "http://www.example.com/a/b")

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusMovedPermanently, true, "../c?x=1")), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true, okResponse(t)), nil).Once()

		_, err := res.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "http://www.example.com/c?x=1", res.EffectiveURI())
	})

	t.Run("given chain longer than the limit, then returns TooManyRedirectsError", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, "http://www.example.com/0", resource.WithMaxRedirects(2))

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusMovedPermanently, true, "http://www.example.com/1")), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusMovedPermanently, true, "http://www.example.com/2")), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusMovedPermanently, true, "http://www.example.com/3")), nil).Once()

		_, err := res.Get(ctx)
		var tooMany *resource.TooManyRedirectsError
		require.ErrorAs(t, err, &tooMany)
		assert.Equal(t, 2, tooMany.Limit)
		assert.Equal(t, []string{
			"http://www.example.com/0",
			"http://www.example.com/1",
			"http://www.example.com/2",
		}, tooMany.Via)
		assert.Equal(t, "http://www.example.com/2", res.EffectiveURI())
	})

	t.Run("given redirect cycle, then returns RedirectLoopError", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI, resource.WithMaxRedirects(0))

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusFound, false, redirectedURI)), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, delegateAt(acc, res, redirectedURI), nil).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusFound, false, testURI)), nil).Once()

		_, err := res.Get(ctx)
		var loop *resource.RedirectLoopError
		require.ErrorAs(t, err, &loop)
		assert.Equal(t, testURI, loop.URI)
		assert.Equal(t, testURI, res.EffectiveURI())
	})

	t.Run("given negative limit, then returns the redirect without following", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI, resource.WithMaxRedirects(-1))
		redirect := redirectResponse(t, http.StatusMovedPermanently, true, redirectedURI)

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Return(newRequest(t, http.MethodGet, true, redirect), nil).Once()

		got, err := res.Get(ctx)
		require.NoError(t, err)
		assert.Same(t, redirect, got)
		assert.Equal(t, testURI, res.EffectiveURI())
	})
}

func TestChain(t *testing.T) {
	var order []string
	first := func(resource.Request, resource.Response) error {
		order = append(order, "first")
		return nil
	}
	failing := func(resource.Request, resource.Response) error {
		order = append(order, "failing")
		return errors.New("stop")
	}
	never := func(resource.Request, resource.Response) error {
		order = append(order, "never")
		return nil
	}

	err := resource.Chain(first, nil, failing, never)(nil, nil)

	require.EqualError(t, err, "stop")
	assert.Equal(t, []string{"first", "failing"}, order)
}

func TestResource_OriginURI(t *testing.T) {
	ctx := context.Background()

	t.Run("given no operation, then reports none", func(t *testing.T) {
		_, ok := resource.OriginURI(ctx)
		assert.False(t, ok)
	})

	t.Run("given temporary redirect, then every hop sees the starting uri", func(t *testing.T) {
		acc := mocks.NewAccessor(t)
		res := resource.New(acc, testURI)

		var origins []string
		record := func(ctx context.Context, _ string, _ *resource.Resource, _ interface{}) {
			origin, ok := resource.OriginURI(ctx)
			require.True(t, ok)
			origins = append(origins, origin)
		}

		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, res, nil).
			Run(record).
			Return(newRequest(t, http.MethodGet, true,
				redirectResponse(t, http.StatusFound, false, redirectedURI)), nil).Once()
		acc.EXPECT().NewRequest(mock.Anything, http.MethodGet, delegateAt(acc, res, redirectedURI), nil).
			Run(record).
			Return(newRequest(t, http.MethodGet, true, okResponse(t)), nil).Once()

		_, err := res.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{testURI, testURI}, origins)
	})
}
