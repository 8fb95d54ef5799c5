package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	domainRepo "github.com/nivaancare/clinic-api/internal/domain/repository"
	"github.com/nivaancare/clinic-api/pkg/pagination"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(CenterScope(ctx)).
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) GetByReceiptNumber(ctx context.Context, centerID uuid.UUID, receiptNumber string) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		First(&txn, "center_id = ? AND receipt_number = ?", centerID, receiptNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) Update(ctx context.Context, txn *entity.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *transactionRepository) List(ctx context.Context, centerID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Transaction, int64, error) {
	var txns []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Where("center_id = ?", centerID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"receipt_number ILIKE ? OR invoice_number ILIKE ? OR patient_name ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("date DESC").
		Find(&txns).Error

	return txns, total, err
}

func (r *transactionRepository) ListWithCursor(ctx context.Context, centerID uuid.UUID, cursor *pagination.Cursor, limit int, search string) ([]entity.Transaction, error) {
	var txns []entity.Transaction

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Where("center_id = ?", centerID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"receipt_number ILIKE ? OR invoice_number ILIKE ? OR patient_name ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	err := query.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&txns).Error

	return txns, err
}

func (r *transactionRepository) ListForCollections(ctx context.Context, centerID uuid.UUID, start, end time.Time) ([]entity.Transaction, error) {
	var txns []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("center_id = ?", centerID).
		Where(
			r.db.Where("date BETWEEN ? AND ?", start, end).
				Or("refunded_at BETWEEN ? AND ?", start, end),
		).
		Order("date ASC").
		Find(&txns).Error
	return txns, err
}
