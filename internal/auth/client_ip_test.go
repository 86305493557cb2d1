package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func requestContext(t *testing.T, headers map[string]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestRealClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			"x-real-ip wins",
			map[string]string{"X-Real-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"},
			"203.0.113.7",
		},
		{
			"first forwarded hop",
			map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2, 10.0.0.3"},
			"198.51.100.1",
		},
		{
			"forwarded hop is trimmed",
			map[string]string{"X-Forwarded-For": "  198.51.100.1 , 10.0.0.2"},
			"198.51.100.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := requestContext(t, tt.headers)
			if got := realClientIP(c); got != tt.want {
				t.Errorf("realClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRealClientIPFallsBackToPeer(t *testing.T) {
	c := requestContext(t, nil)
	c.Request.RemoteAddr = "192.0.2.9:54321"
	if got := realClientIP(c); got != "192.0.2.9" {
		t.Errorf("realClientIP() = %q, want peer address", got)
	}
}
