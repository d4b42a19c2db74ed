package handler

import (
	"net/http"

	"estate_ledger/internal/model"
	"estate_ledger/internal/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles sale transaction requests
type TransactionHandler struct {
	service service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	requester, ok := principal(c)
	if !ok {
		return
	}
	var req model.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	transaction, err := h.service.Create(c.Request.Context(), requester, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) VerifyTransaction(c *gin.Context) {
	requester, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "transaction")
	if !ok {
		return
	}

	transaction, err := h.service.Verify(c.Request.Context(), requester, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) CompleteTransaction(c *gin.Context) {
	requester, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "transaction")
	if !ok {
		return
	}

	completed, err := h.service.Complete(c.Request.Context(), requester, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, completed)
}

func (h *TransactionHandler) GetMyTransactions(c *gin.Context) {
	requester, ok := principal(c)
	if !ok {
		return
	}
	details, err := h.service.ListForUser(c.Request.Context(), requester)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	requester, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "transaction")
	if !ok {
		return
	}
	detail, err := h.service.Get(c.Request.Context(), requester, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// RegisterTransactionRoutes registers transaction routes
func (h *TransactionHandler) RegisterTransactionRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	txRoutes := rg.Group("/transactions")
	txRoutes.Use(authMW)
	{
		txRoutes.POST("", h.CreateTransaction)
		txRoutes.GET("/user", h.GetMyTransactions)
		txRoutes.GET("/:id", h.GetTransactionByID)
		txRoutes.PATCH("/:id/verify", h.VerifyTransaction)
		txRoutes.PATCH("/:id/complete", h.CompleteTransaction)
	}
}
