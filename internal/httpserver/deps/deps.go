package deps

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/views"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/manager"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	AllowedHosts  []string         // Host headers allowed to access admin routes
	AllowedCIDRS  []string         // IPs allowed to access admin routes
	TrustProxy    bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	WriteLimiter  func(http.Handler) http.Handler // Per-IP rate limit shared by mutating routes
	Manager       *manager.Manager // Bookmark manager
	Views         *views.Views     // Stateful tree views over the manager
	StoreName     string           // Backend name reported by /infra
	RedisClient   *redis.Client    // Redis client connection (nil unless the redis store is used)
	SearchLimit   int              // Max search results
	ReloadTrigger chan struct{}    // Channel to trigger a manual convergence reload
}
