package resource

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponse struct {
	code   int
	header map[string][]string
	closed bool
}

func (s *stubResponse) Code() int                   { return s.code }
func (s *stubResponse) Header() map[string][]string { return s.header }
func (s *stubResponse) IsRedirect() bool            { return true }
func (s *stubResponse) IsPermanentRedirect() bool   { return false }
func (s *stubResponse) Close() error {
	s.closed = true
	return nil
}

func TestRedirectLocation(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		header  map[string][]string
		want    string
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "given absolute location, then returns it verbatim",
			base:    "http://a.example.com/x",
			header:  map[string][]string{"Location": {"http://b.example.com/y?q"}},
			want:    "http://b.example.com/y?q",
			wantErr: assert.NoError,
		},
		{
			name:    "given several values, then takes the first",
			base:    "http://a.example.com/x",
			header:  map[string][]string{"Location": {"http://b.example.com/1", "http://b.example.com/2"}},
			want:    "http://b.example.com/1",
			wantErr: assert.NoError,
		},
		{
			name:    "given absolute path, then resolves against base host",
			base:    "https://a.example.com/x/y",
			header:  map[string][]string{"Location": {"/z"}},
			want:    "https://a.example.com/z",
			wantErr: assert.NoError,
		},
		{
			name:    "given lowercase header name, then treats it as missing",
			base:    "http://a.example.com/",
			header:  map[string][]string{"location": {"http://b.example.com/"}},
			wantErr: assert.Error,
		},
		{
			name:    "given empty value, then reports missing location",
			base:    "http://a.example.com/",
			header:  map[string][]string{"Location": {""}},
			wantErr: assert.Error,
		},
		{
			name:    "given malformed location, then returns error",
			base:    "http://a.example.com/",
			header:  map[string][]string{"Location": {"http://[::1"}},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := redirectLocation(tt.base, &stubResponse{code: http.StatusFound, header: tt.header})

			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChain_Visit(t *testing.T) {
	t.Run("given unlimited chain, then only loops stop it", func(t *testing.T) {
		c := newChain("a", 0)
		for _, uri := range []string{"b", "c", "d", "e"} {
			require.NoError(t, c.visit(uri))
		}
		assert.Equal(t, 4, c.hops())

		err := c.visit("c")
		var loop *RedirectLoopError
		require.ErrorAs(t, err, &loop)
		assert.Equal(t, "c", loop.URI)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, loop.Via)
	})

	t.Run("given a limit, then stops at it", func(t *testing.T) {
		c := newChain("a", 1)
		require.NoError(t, c.visit("b"))

		err := c.visit("c")
		var tooMany *TooManyRedirectsError
		require.ErrorAs(t, err, &tooMany)
		assert.Equal(t, "resource: stopped after 1 redirects (limit: 1)", err.Error())
	})
}

func TestDiscardBody(t *testing.T) {
	resp := &stubResponse{}
	discardBody(resp)
	assert.True(t, resp.closed)
}
