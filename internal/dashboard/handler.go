package dashboard

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/tenant"
	"github.com/eventflow/backend/pkg/response"
)

// Handler serves the dashboard summary endpoint.
type Handler struct {
	agg    *Aggregator
	logger *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(agg *Aggregator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{agg: agg, logger: logger}
}

// GetStats handles GET /dashboard/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.agg.Collect(c.Request.Context(), tenant.OrgID(c))
	if err != nil {
		h.logger.Error("dashboard stats failed", zap.Error(err))
		response.Internal(c, "failed to load dashboard stats")
		return
	}
	response.OK(c, stats)
}
