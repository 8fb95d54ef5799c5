package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/pkg/apperror"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// TransactionService exposes the read side of the payment ledger. Ledger
// rows are written by the billing flows and are immutable from here.
type TransactionService struct {
	txnRepo repository.TransactionRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txnRepo repository.TransactionRepository) *TransactionService {
	return &TransactionService{txnRepo: txnRepo}
}

// ListTransactions pages the ledger. Clients that pass a cursor (or a bare
// limit) get keyset pagination, which stays fast however deep they scroll;
// everything else falls back to page/per_page with a total count.
func (s *TransactionService) ListTransactions(ctx context.Context, params *pagination.UnifiedPaginationParams, search string) (*pagination.UnifiedPaginatedResult[entity.Transaction], error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	if params.IsCursorBased() {
		cursorParams := params.ToCursorParams()
		cursor, err := cursorParams.DecodeCursor()
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid cursor")
		}

		txns, err := s.txnRepo.ListWithCursor(ctx, centerID, cursor, cursorParams.Limit, search)
		if err != nil {
			return nil, err
		}

		pag, txns := pagination.NewCursorPagination(txns, cursorParams.Limit,
			func(t entity.Transaction) string { return t.ID.String() },
			func(t entity.Transaction) time.Time { return t.CreatedAt },
		)
		pag.HasPrev = cursorParams.Cursor != ""

		return pagination.NewUnifiedPaginatedResultFromCursor(txns, pag), nil
	}

	pageParams := params.ToPaginationParams()
	txns, total, err := s.txnRepo.List(ctx, centerID, pageParams, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(pageParams.Page, pageParams.PerPage, total)
	return pagination.NewUnifiedPaginatedResultFromPage(txns, pag), nil
}

// GetTransaction retrieves a single ledger entry by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// GetByReceiptNumber retrieves a ledger entry by its receipt number
func (s *TransactionService) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.Transaction, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	txn, err := s.txnRepo.GetByReceiptNumber(ctx, centerID, receiptNumber)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}
