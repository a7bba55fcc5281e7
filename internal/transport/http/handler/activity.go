package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adrianoneco/userdir/internal/activity"
	"github.com/adrianoneco/userdir/internal/domain"
	"github.com/gin-gonic/gin"
)

type activityUsecaser interface {
	RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}

type ActivityHandler struct {
	usecase activityUsecaser
	logger  *slog.Logger
}

func NewActivityHandler(usecase activityUsecaser, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		usecase: usecase,
		logger:  logger.With("component", "activity_handler"),
	}
}

// GET /api/activity?limit=N
// Reads the bounded recent window, newest first. The limit is clamped to
// the retained window size.
func (h *ActivityHandler) Recent(c *gin.Context) {
	limit := activity.DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": errInvalidLimit})
			return
		}
		limit = n
	}
	if limit > activity.MaxEntries {
		limit = activity.MaxEntries
	}

	entries, err := h.usecase.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "recent activity", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, entries)
}
