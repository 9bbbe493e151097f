package reviews

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reagent-systems/site-backend/internal/logging"
	"github.com/reagent-systems/site-backend/internal/metrics"
)

// CacheControl forces every client and proxy to revalidate.
const CacheControl = "no-store, no-cache, must-revalidate, proxy-revalidate"

type Lister interface {
	List(ctx context.Context) ([]Review, error)
}

type Handler struct {
	source Lister
	logger *zap.Logger
}

func NewHandler(source Lister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{source: source, logger: logger}
}

func (h *Handler) Register(rg gin.IRouter) {
	rg.GET("/reviews", h.list)
}

func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	c.Header("Cache-Control", CacheControl)

	items, err := h.source.List(ctx)
	if err != nil {
		logging.FromContext(ctx, h.logger).Warn("failed to load reviews", zap.Error(err))
		metrics.RecordFallback(metrics.EndpointReviews, fallbackReason(err))
		c.JSON(http.StatusOK, gin.H{"reviews": []Review{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": items})
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrUpstreamStatus):
		return metrics.ReasonStatus
	case errors.Is(err, ErrMalformed):
		return metrics.ReasonDecode
	default:
		return metrics.ReasonUpstream
	}
}
