package resilience

import (
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", eris.New("parse failure"), false},
		{"transient wrapper", NewTransientError(eris.New("rate limited"), 429), true},
		{"wrapped transient", eris.Wrap(NewTransientError(eris.New("503"), 503), "fetch page"), true},
		{"connection reset", syscall.ECONNRESET, true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"io timeout message", eris.New("read tcp 1.2.3.4:443: i/o timeout"), true},
		{"no such host message", eris.New("dial tcp: lookup acme.invalid: no such host"), true},
		{"tls handshake", eris.New("net/http: TLS handshake timeout"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	inner := eris.New("service unavailable")
	te := NewTransientError(inner, 503)

	assert.Equal(t, "service unavailable", te.Error())
	assert.Equal(t, 503, te.StatusCode)
	assert.ErrorIs(t, te, inner)
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}
