package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the board frontend's origin, taken from FRONTEND_URL
// (comma-separated). Defaults cover local dev servers.
func CORSMiddleware() gin.HandlerFunc {
	allowed := []string{"http://localhost:5173", "http://localhost:3000"}
	if raw := os.Getenv("FRONTEND_URL"); raw != "" {
		allowed = allowed[:0]
		for _, origin := range strings.Split(raw, ",") {
			allowed = append(allowed, strings.TrimSpace(origin))
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
