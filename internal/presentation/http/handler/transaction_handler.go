package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/application/service"
	"github.com/nivaancare/clinic-api/internal/presentation/http/dto/response"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// TransactionHandler handles payment ledger HTTP requests
type TransactionHandler struct {
	txnService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txnService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txnService: txnService}
}

// List handles listing ledger transactions. Accepts either page/per_page
// or cursor/limit query parameters.
func (h *TransactionHandler) List(c *gin.Context) {
	var params pagination.UnifiedPaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.txnService.ListTransactions(c.Request.Context(), &params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transactions retrieved successfully", result)
}

// Get handles retrieving a single ledger transaction
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.txnService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}

// GetByReceipt handles looking up a ledger transaction by receipt number
func (h *TransactionHandler) GetByReceipt(c *gin.Context) {
	receiptNumber := c.Param("number")
	if receiptNumber == "" {
		response.BadRequest(c, "Receipt number is required")
		return
	}

	txn, err := h.txnService.GetByReceiptNumber(c.Request.Context(), receiptNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}
