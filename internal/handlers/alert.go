package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/store"
	"github.com/agromanage/agromanage/internal/types"
	"github.com/agromanage/agromanage/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreateAlertRequest struct {
	Type        string    `json:"type" binding:"required,max=100"`
	Severity    string    `json:"severity" binding:"required,oneof=low medium high"`
	Description string    `json:"description" binding:"required"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required,gtefield=StartDate"`
}

// ListAlerts returns every alert, or only the ones covering the current time
// when called with ?active=true.
func (h *Handler) ListAlerts(ctx *gin.Context) {
	activeOnly := false

	if raw := ctx.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "active must be a boolean"})
			return
		}
		activeOnly = parsed
	}

	var (
		alerts []models.WeatherAlert
		err    error
	)

	if activeOnly {
		alerts, err = h.Alerts.ListActive(ctx.Request.Context(), h.clock().UTC())
	} else {
		alerts, err = h.Alerts.List(ctx.Request.Context())
	}

	if err != nil {
		h.Logger.Error("Failed to list weather alerts", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching weather alerts"})
		return
	}

	ctx.JSON(http.StatusOK, alerts)
}

func (h *Handler) GetAlert(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	alert, err := h.Alerts.Get(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Weather alert not found"})
			return
		}

		h.Logger.Error("Failed to fetch weather alert", zap.Uint("alert_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching weather alert"})
		return
	}

	ctx.JSON(http.StatusOK, alert)
}

// CreateAlert stores the alert and publishes it straight away when its window
// already covers the current time. Future alerts are left to the scheduler.
func (h *Handler) CreateAlert(ctx *gin.Context) {
	var req CreateAlertRequest

	if !bindJSON(ctx, &req) {
		return
	}

	alert := models.WeatherAlert{
		Type:        strings.TrimSpace(req.Type),
		Severity:    types.Severity(req.Severity),
		Description: req.Description,
		StartDate:   req.StartDate.UTC(),
		EndDate:     req.EndDate.UTC(),
	}

	if err := h.Alerts.Create(ctx.Request.Context(), &alert); err != nil {
		h.Logger.Error("Failed to create weather alert", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating weather alert"})
		return
	}

	if h.Alerter != nil && alert.ActiveAt(h.clock()) {
		h.Alerter.PublishAlert(ctx.Request.Context(), alert)
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": alert.ID})
}
