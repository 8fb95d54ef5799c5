package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

func seedLedger(t *testing.T, repo *fakeTxnRepo, centerID uuid.UUID, n int) {
	t.Helper()
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Create(context.Background(), &entity.Transaction{
			CenterID:      centerID,
			ReceiptNumber: fmt.Sprintf("RCP-%04d", i+1),
			PatientName:   "Asha Rao",
			Amount:        100,
			PaymentMethod: "cash",
			Status:        "completed",
			Date:          base.Add(time.Duration(i) * time.Hour),
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}))
	}
}

func TestListTransactions_PageBased(t *testing.T) {
	repo := newFakeTxnRepo()
	centerID := uuid.New()
	seedLedger(t, repo, centerID, 5)
	svc := NewTransactionService(repo)

	result, err := svc.ListTransactions(centerCtx(centerID), &pagination.UnifiedPaginationParams{Page: 1, PerPage: 3}, "")
	require.NoError(t, err)

	assert.Len(t, result.Items, 3)
	require.NotNil(t, result.Total)
	assert.EqualValues(t, 5, *result.Total)
	require.NotNil(t, result.TotalPages)
	assert.Equal(t, 2, *result.TotalPages)
	assert.True(t, result.HasNext)
	assert.Nil(t, result.NextCursor)
}

func TestListTransactions_CursorBased(t *testing.T) {
	repo := newFakeTxnRepo()
	centerID := uuid.New()
	seedLedger(t, repo, centerID, 5)
	svc := NewTransactionService(repo)
	ctx := centerCtx(centerID)

	first, err := svc.ListTransactions(ctx, &pagination.UnifiedPaginationParams{Limit: 3}, "")
	require.NoError(t, err)

	assert.Len(t, first.Items, 3)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)
	require.NotNil(t, first.NextCursor)
	assert.Nil(t, first.Total, "cursor pages carry no total count")

	// Newest first
	assert.Equal(t, "RCP-0005", first.Items[0].ReceiptNumber)
	assert.Equal(t, "RCP-0003", first.Items[2].ReceiptNumber)

	second, err := svc.ListTransactions(ctx, &pagination.UnifiedPaginationParams{Cursor: *first.NextCursor, Limit: 3}, "")
	require.NoError(t, err)

	assert.Len(t, second.Items, 2)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrev)
	assert.Equal(t, "RCP-0002", second.Items[0].ReceiptNumber)
	assert.Equal(t, "RCP-0001", second.Items[1].ReceiptNumber)
}

func TestListTransactions_InvalidCursor(t *testing.T) {
	repo := newFakeTxnRepo()
	centerID := uuid.New()
	svc := NewTransactionService(repo)

	_, err := svc.ListTransactions(centerCtx(centerID), &pagination.UnifiedPaginationParams{Cursor: "not-base64!!"}, "")
	assert.Error(t, err)
}

func TestListTransactions_SearchAndScope(t *testing.T) {
	repo := newFakeTxnRepo()
	centerID := uuid.New()
	seedLedger(t, repo, centerID, 3)
	seedLedger(t, repo, uuid.New(), 3)
	svc := NewTransactionService(repo)

	result, err := svc.ListTransactions(centerCtx(centerID), &pagination.UnifiedPaginationParams{Page: 1, PerPage: 10}, "RCP-0002")
	require.NoError(t, err)
	assert.Len(t, result.Items, 1, "search hits only this center's ledger")

	_, err = svc.ListTransactions(context.Background(), &pagination.UnifiedPaginationParams{}, "")
	assert.Error(t, err, "no center context")
}

func TestGetTransaction(t *testing.T) {
	repo := newFakeTxnRepo()
	centerID := uuid.New()
	seedLedger(t, repo, centerID, 1)
	svc := NewTransactionService(repo)
	ctx := centerCtx(centerID)

	txn, err := svc.GetTransaction(ctx, repo.txns[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "RCP-0001", txn.ReceiptNumber)

	_, err = svc.GetTransaction(ctx, uuid.New())
	assert.Error(t, err)
}

func TestGetByReceiptNumber(t *testing.T) {
	repo := newFakeTxnRepo()
	centerID := uuid.New()
	seedLedger(t, repo, centerID, 2)
	svc := NewTransactionService(repo)
	ctx := centerCtx(centerID)

	txn, err := svc.GetByReceiptNumber(ctx, "RCP-0002")
	require.NoError(t, err)
	assert.Equal(t, "RCP-0002", txn.ReceiptNumber)

	_, err = svc.GetByReceiptNumber(ctx, "RCP-9999")
	assert.Error(t, err)

	// Another center's receipt numbers are invisible here
	_, err = svc.GetByReceiptNumber(centerCtx(uuid.New()), "RCP-0001")
	assert.Error(t, err)
}
