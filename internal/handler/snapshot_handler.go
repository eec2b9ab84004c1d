package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/market-snapshot-service/internal/model"
	"github.com/yourorg/market-snapshot-service/internal/service"
)

// SnapshotHandler handles market snapshot HTTP requests
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
	logger          *zap.Logger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(snapshotService *service.SnapshotService, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
		logger:          logger,
	}
}

// GetSnapshot handles producing a market snapshot for a symbol/timeframe.
// Once the body parses, the response is always 200: data acquisition is total
// and degrades to demo data rather than failing.
// POST /api/v1/snapshot
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	var req model.SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Timeframe == "" {
		req.Timeframe = "1H"
	}
	if !model.IsValidTimeframe(req.Timeframe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timeframe. Use one of 1M, 5M, 15M, 1H, 4H, 1D, 1W"})
		return
	}

	snapshot := h.snapshotService.GetSnapshot(c.Request.Context(), &req)

	h.logger.Debug("Snapshot assembled",
		zap.String("symbol", req.Symbol),
		zap.String("source", snapshot.Source))

	c.JSON(http.StatusOK, snapshot)
}
