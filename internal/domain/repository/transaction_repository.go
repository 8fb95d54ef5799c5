package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// TransactionRepository defines the interface for ledger transaction operations
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetByReceiptNumber(ctx context.Context, centerID uuid.UUID, receiptNumber string) (*entity.Transaction, error)
	Update(ctx context.Context, txn *entity.Transaction) error
	List(ctx context.Context, centerID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Transaction, int64, error)
	// ListWithCursor pages the ledger by keyset on (created_at, id) so deep
	// scrolling stays cheap as the table grows. It returns up to limit+1 rows
	// so the caller can detect whether more pages exist.
	ListWithCursor(ctx context.Context, centerID uuid.UUID, cursor *pagination.Cursor, limit int, search string) ([]entity.Transaction, error)
	// ListForCollections returns the transactions the collection report must
	// scan, widened the same way as bills so refunds recorded inside the
	// range are loaded regardless of the original transaction date.
	ListForCollections(ctx context.Context, centerID uuid.UUID, start, end time.Time) ([]entity.Transaction, error)
}
