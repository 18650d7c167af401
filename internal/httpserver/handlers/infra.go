package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Backend    string `json:"backend,omitempty"`
	Bookmarks  *int   `json:"bookmarks,omitempty"`
	Favorites  *int   `json:"favorites,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := d.Manager.Snapshot()
		bookmarks := list.Count()
		favorites := len(list.FavoriteBookmarks())

		lastReload := d.Manager.LastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"index": {
				OK:         !lastReload.IsZero(),
				Bookmarks:  &bookmarks,
				Favorites:  &favorites,
				LastReload: lastReloadStr,
			},
			"store": checkStore(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode is "critical" when nothing was ever loaded and "degraded"
// when the store is unreachable but a previous load is still served.
func determineMode(components map[string]componentStatus) string {
	if idx, ok := components["index"]; ok && !idx.OK {
		return "critical"
	}
	if st, ok := components["store"]; ok && !st.OK {
		return "degraded"
	}
	return "optimal"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	status := componentStatus{OK: true, Backend: d.StoreName}
	if d.RedisClient == nil {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		status.OK = false
		status.Error = err.Error()
	}
	return status
}
