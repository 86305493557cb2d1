package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// realClientIP resolves the address recorded on login log entries. Behind a
// reverse proxy the peer address is the proxy itself, so the forwarding
// headers win over the socket address.
func realClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		// The first hop in the list is the original client
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return c.ClientIP()
}
