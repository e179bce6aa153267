package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) Health(ctx *gin.Context) {
	if err := h.DB.Ping(ctx.Request.Context()); err != nil {
		h.Logger.Warn("Health check failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}
