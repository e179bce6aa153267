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

type CreateLoanRequest struct {
	Amount       types.Decimal `json:"amount" binding:"required,numeric,decimal_gt=0,decimal_lte=99999999.99"`
	InterestRate types.Decimal `json:"interest_rate" binding:"required,numeric,decimal_gte=0,decimal_lte=999.99"`
	TermMonths   int           `json:"term_months" binding:"required,min=1"`
}

type UpdateLoanStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected paid"`
}

func (h *Handler) ListLoans(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var loans []models.Loan

	if user.Role == types.RoleAdmin {
		loans, err = h.Loans.List(ctx.Request.Context())
	} else {
		loans, err = h.Loans.ListByUser(ctx.Request.Context(), user.ID)
	}

	if err != nil {
		h.Logger.Error("Failed to list loans", zap.Uint("user_id", user.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching loans"})
		return
	}

	ctx.JSON(http.StatusOK, loans)
}

func (h *Handler) GetLoan(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	loan, err := h.Loans.Get(ctx.Request.Context(), id)

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.Logger.Error("Failed to fetch loan", zap.Uint("loan_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching loan"})
		return
	}

	if loan == nil || (user.Role != types.RoleAdmin && loan.UserID != user.ID) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		return
	}

	ctx.JSON(http.StatusOK, loan)
}

func (h *Handler) CreateLoan(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateLoanRequest

	if !bindJSON(ctx, &req) {
		return
	}

	loan := models.Loan{
		UserID:       userID,
		Amount:       req.Amount.Normalize(),
		InterestRate: req.InterestRate.Normalize(),
		TermMonths:   req.TermMonths,
		Status:       types.LoanPending,
	}

	if err := h.Loans.Create(ctx.Request.Context(), &loan); err != nil {
		h.Logger.Error("Failed to create loan", zap.Uint("user_id", userID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating loan application"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": loan.ID})
}

func (h *Handler) UpdateLoanStatus(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	var req UpdateLoanStatusRequest

	if !bindJSON(ctx, &req) {
		return
	}

	if err := h.Loans.UpdateStatus(ctx.Request.Context(), id, types.LoanStatus(req.Status)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
			return
		}

		h.Logger.Error("Failed to update loan status", zap.Uint("loan_id", id), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating loan"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}
