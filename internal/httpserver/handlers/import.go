package handlers

import (
	"io"
	"net/http"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/sources"
)

// Import handles POST /api/import?format=, parsing the request body with
// the named import source.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = sources.FormatHomepage
		}
		if !sources.IsSupported(format) {
			badRequest(w, "unsupported import format "+format)
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, importBodyBytes))
		if err != nil {
			badRequest(w, "failed to read body: "+err.Error())
			return
		}

		tree, err := sources.Parse(format, data)
		if err != nil {
			badRequest(w, err.Error())
			return
		}

		res, err := d.Manager.ImportBookmarks(r.Context(), tree)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("import request completed",
			logger.String("format", format),
			logger.Int("successful", res.Successful),
			logger.Int("duplicates", res.Duplicates))
		writeJSON(w, http.StatusOK, res)
	}
}
