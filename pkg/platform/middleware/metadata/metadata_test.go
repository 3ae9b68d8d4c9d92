package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{
			name:       "direct connection strips port",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "ipv6 direct connection",
			remoteAddr: "[::1]:51234",
			want:       "[::1]",
		},
		{
			name:       "single forwarded entry",
			remoteAddr: "10.0.0.1:80",
			xff:        "198.51.100.4",
			want:       "198.51.100.4",
		},
		{
			name:       "only first forwarded entry is trusted",
			remoteAddr: "10.0.0.1:80",
			xff:        "198.51.100.4, 10.0.0.2, 10.0.0.3",
			want:       "198.51.100.4",
		},
		{
			name:       "forwarded entry with whitespace",
			remoteAddr: "10.0.0.1:80",
			xff:        "  198.51.100.4 , 10.0.0.2",
			want:       "198.51.100.4",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:80",
			xri:        "198.51.100.9",
			want:       "198.51.100.9",
		},
		{
			name:       "forwarded header wins over x-real-ip",
			remoteAddr: "10.0.0.1:80",
			xff:        "198.51.100.4",
			xri:        "198.51.100.9",
			want:       "198.51.100.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}

func TestClientMetadataMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	req.Header.Set("User-Agent", "reunion-test/1.0")

	var gotIP, gotUA string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = GetClientIP(r.Context())
		gotUA = GetUserAgent(r.Context())
	})

	ClientMetadata(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", gotIP)
	assert.Equal(t, "reunion-test/1.0", gotUA)
}

func TestGetClientIPMissing(t *testing.T) {
	assert.Equal(t, "", GetClientIP(t.Context()))
}
