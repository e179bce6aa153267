package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/store"
	"github.com/agromanage/agromanage/internal/types"
	"github.com/agromanage/agromanage/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductRequest struct {
	Name        string        `json:"name" binding:"required,max=100"`
	Category    string        `json:"category" binding:"required,oneof=Seeds Fertilizers Pesticides"`
	Price       types.Decimal `json:"price" binding:"required,numeric,decimal_gte=0,decimal_lte=99999999.99"`
	Stock       *int          `json:"stock" binding:"required,min=0"`
	ImageURL    *string       `json:"image_url" binding:"omitempty,max=255"`
	Description *string       `json:"description"`
}

func (r ProductRequest) apply(product *models.Product) {
	product.Name = strings.TrimSpace(r.Name)
	product.Category = r.Category
	product.Price = r.Price.Normalize()
	product.Stock = *r.Stock
	product.ImageURL = r.ImageURL
	product.Description = r.Description
}

func (h *Handler) ListProducts(ctx *gin.Context) {
	products, err := h.Products.List(ctx.Request.Context())

	if err != nil {
		h.Logger.Error("Failed to list products", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching products"})
		return
	}

	ctx.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.Products.Get(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		h.Logger.Error("Failed to fetch product", zap.Uint("product_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching product"})
		return
	}

	ctx.JSON(http.StatusOK, product)
}

func (h *Handler) CreateProduct(ctx *gin.Context) {
	var req ProductRequest

	if !bindJSON(ctx, &req) {
		return
	}

	var product models.Product
	req.apply(&product)

	if err := h.Products.Create(ctx.Request.Context(), &product); err != nil {
		h.Logger.Error("Failed to create product", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating product"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": product.ID})
}

func (h *Handler) UpdateProduct(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req ProductRequest

	if !bindJSON(ctx, &req) {
		return
	}

	product := models.Product{ID: id}
	req.apply(&product)

	if err := h.Products.Update(ctx.Request.Context(), &product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		h.Logger.Error("Failed to update product", zap.Uint("product_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating product"})
		return
	}

	updated, err := h.Products.Get(ctx.Request.Context(), id)

	if err != nil {
		h.Logger.Error("Failed to reload product", zap.Uint("product_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating product"})
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteProduct(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.Products.Delete(ctx.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, store.ErrReferenced):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Product is referenced by existing orders"})
		default:
			h.Logger.Error("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting product"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
