package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// CenterRepository defines the interface for center data operations
type CenterRepository interface {
	// Create creates a new center
	Create(ctx context.Context, center *entity.Center) error

	// GetByID retrieves a center by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Center, error)

	// GetBySlug retrieves a center by slug (subdomain identifier)
	GetBySlug(ctx context.Context, slug string) (*entity.Center, error)

	// Update updates an existing center
	Update(ctx context.Context, center *entity.Center) error

	// Delete soft-deletes a center
	Delete(ctx context.Context, id uuid.UUID) error

	// GetUserCenters retrieves all centers a user belongs to with pagination
	GetUserCenters(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Center, int64, error)

	// AddMember adds a user as a member of a center
	AddMember(ctx context.Context, membership *entity.CenterMembership) error

	// RemoveMember removes a user from a center
	RemoveMember(ctx context.Context, centerID, userID uuid.UUID) error

	// GetMembers retrieves all members of a center
	GetMembers(ctx context.Context, centerID uuid.UUID) ([]entity.CenterMembership, error)

	// IsMember checks if a user is a member of a center
	IsMember(ctx context.Context, centerID, userID uuid.UUID) (bool, error)

	// GetMembership retrieves a specific membership
	GetMembership(ctx context.Context, centerID, userID uuid.UUID) (*entity.CenterMembership, error)

	// UpdateMemberRole updates a member's role in a center
	UpdateMemberRole(ctx context.Context, centerID, userID uuid.UUID, role string) error

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)
}
