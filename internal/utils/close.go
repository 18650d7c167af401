package utils

import (
	"io"

	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// MustClose closes c and logs any error under what.
// Use for deferred shutdown of stores and clients.
func MustClose(c io.Closer, what string, log logger.Logger) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", what), logger.Error(err))
	}
}
