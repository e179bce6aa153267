package handlers

import (
	"errors"
	"net/http"

	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/store"
	"github.com/agromanage/agromanage/internal/types"
	"github.com/agromanage/agromanage/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=1000000"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing completed cancelled"`
}

func (h *Handler) ListOrders(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var orders []models.Order

	if user.Role == types.RoleAdmin {
		orders, err = h.Orders.List(ctx.Request.Context())
	} else {
		orders, err = h.Orders.ListByUser(ctx.Request.Context(), user.ID)
	}

	if err != nil {
		h.Logger.Error("Failed to list orders", zap.Uint("user_id", user.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching orders"})
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// GetOrder hides other farmers' orders behind a 404.
func (h *Handler) GetOrder(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.Orders.Get(ctx.Request.Context(), id)

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.Logger.Error("Failed to fetch order", zap.Uint("order_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching order"})
		return
	}

	if order == nil || (user.Role != types.RoleAdmin && order.UserID != user.ID) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	ctx.JSON(http.StatusOK, order)
}

func (h *Handler) CreateOrder(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateOrderRequest

	if !bindJSON(ctx, &req) {
		return
	}

	lines := make([]store.OrderLine, 0, len(req.Items))

	for _, item := range req.Items {
		lines = append(lines, store.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.Orders.Create(ctx.Request.Context(), userID, lines)

	if err != nil {
		if errors.Is(err, store.ErrUnknownProduct) || errors.Is(err, store.ErrInvalidReference) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product"})
			return
		}

		if errors.Is(err, store.ErrAmountOutOfRange) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Order total exceeds the allowed maximum"})
			return
		}

		h.Logger.Error("Failed to create order", zap.Uint("user_id", userID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating order"})
		return
	}

	h.Logger.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.String("total_amount", order.TotalAmount.String()),
	)

	ctx.JSON(http.StatusCreated, gin.H{"id": order.ID, "total_amount": order.TotalAmount})
}

func (h *Handler) UpdateOrderStatus(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req UpdateOrderStatusRequest

	if !bindJSON(ctx, &req) {
		return
	}

	if err := h.Orders.UpdateStatus(ctx.Request.Context(), id, types.OrderStatus(req.Status)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		h.Logger.Error("Failed to update order status", zap.Uint("order_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating order"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}
