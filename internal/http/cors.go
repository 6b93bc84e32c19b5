package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware lets browser clients on the configured origins call the API. It returns
// nil when CORS is disabled or none of the configured origins is usable. Credentials are not
// allowed: the API authenticates with bearer tokens, never cookies.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins, rejected := parseOrigins(allowOrigins)
	if len(rejected) > 0 {
		logger.Warn("ignoring invalid CORS origins", slog.Any("origins", rejected))
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no usable origin configured, CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		// Cache-Control and Last-Event-ID come from EventSource clients of /v1/cards/stream.
		AllowHeaders:  []string{"Authorization", "Content-Type", "Cache-Control", "Last-Event-ID"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	})
}

// parseOrigins splits a comma-separated list into usable origins and rejected entries. An
// origin is a bare http(s) scheme and host, with an optional port; wildcards and paths are
// rejected.
func parseOrigins(list string) (origins, rejected []string) {
	for _, part := range strings.Split(list, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if validOrigin(origin) {
			origins = append(origins, strings.TrimSuffix(origin, "/"))
		} else {
			rejected = append(rejected, origin)
		}
	}
	return origins, rejected
}

func validOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" || strings.Contains(u.Host, "*") {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return (u.Path == "" || u.Path == "/") && u.RawQuery == "" && u.Fragment == "" && u.User == nil
}
