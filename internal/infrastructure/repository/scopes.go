package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// CenterIDKey is the context key for center ID
	CenterIDKey ctxKey = "center_id"
	// SkipCenterScopeKey is the context key for skipping center scope (super admin)
	SkipCenterScopeKey ctxKey = "skip_center_scope"
)

// CenterScope returns a GORM scope that filters by center
// This should be applied to all queries for center-scoped entities
// If SkipCenterScopeKey is true in context (super admin), returns all records
func CenterScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		// Check if center scope should be skipped (super admin)
		if skipScope, ok := ctx.Value(SkipCenterScopeKey).(bool); ok && skipScope {
			return db // Return unfiltered query for super admins
		}

		centerID, ok := ctx.Value(CenterIDKey).(uuid.UUID)
		if !ok {
			// Fail-safe: return no results if center context missing
			// This prevents accidental cross-center data access
			return db.Where("1 = 0")
		}
		return db.Where("center_id = ?", centerID)
	}
}

// WithSkipCenterScope adds skip center scope flag to context (for super admins)
func WithSkipCenterScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipCenterScopeKey, skip)
}

// WithCenter adds center ID to context
func WithCenter(ctx context.Context, centerID uuid.UUID) context.Context {
	return context.WithValue(ctx, CenterIDKey, centerID)
}

// GetCenterID extracts center ID from context
func GetCenterID(ctx context.Context) (uuid.UUID, bool) {
	centerID, ok := ctx.Value(CenterIDKey).(uuid.UUID)
	return centerID, ok
}
