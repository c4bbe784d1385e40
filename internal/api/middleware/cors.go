// Package middleware provides gin middleware for the gateway's HTTP
// surface.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSConfig defines cross-origin behavior.
type CORSConfig struct {
	// AllowedOrigins is the allow list. The request origin is echoed
	// back when it matches; otherwise the first entry is advertised.
	AllowedOrigins []string
}

// DefaultCORSConfig permits the local dashboard ports.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
	}
}

// CORS creates the cross-origin middleware. Unlisted origins still get
// a response carrying the default origin, so browsers enforce the
// policy without the server leaking which origins are accepted.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultCORSConfig().AllowedOrigins
	}

	return func(c *gin.Context) {
		allowed := origins[0]
		if origin := c.GetHeader("Origin"); origin != "" {
			for _, candidate := range origins {
				if candidate == origin {
					allowed = origin
					break
				}
			}
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowed)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-Id, X-Requested-With, Accept, Origin")
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
