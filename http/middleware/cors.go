package middlewares

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-gallery-service/config"
)

// CORSMiddleware allows every origin unless ALLOWED_DOMAINS lists specific ones.
func CORSMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Disposition", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	var domains []string
	for _, d := range strings.Split(cfg.CORS.AllowDomains, ",") {
		if d = strings.TrimSpace(d); d != "" {
			domains = append(domains, d)
		}
	}
	if len(domains) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = domains
		corsCfg.AllowCredentials = true
	}

	return cors.New(corsCfg)
}
