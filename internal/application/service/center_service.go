package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	"github.com/nivaancare/clinic-api/pkg/apperror"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// CenterService handles center-related operations
type CenterService struct {
	centerRepo repository.CenterRepository
}

// NewCenterService creates a new center service
func NewCenterService(centerRepo repository.CenterRepository) *CenterService {
	return &CenterService{centerRepo: centerRepo}
}

// CreateCenterInput represents input for creating a center
type CreateCenterInput struct {
	Name     string
	Slug     string
	OwnerID  uuid.UUID
	Address  *string
	Phone    *string
	Settings *entity.CenterSettings
}

// CreateCenter creates a new center
func (s *CenterService) CreateCenter(ctx context.Context, input *CreateCenterInput) (*entity.Center, error) {
	// Check if slug already exists
	existing, err := s.centerRepo.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Center slug already exists")
	}

	settings := entity.DefaultCenterSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}

	center := &entity.Center{
		Name:     input.Name,
		Slug:     input.Slug,
		OwnerID:  input.OwnerID,
		Address:  input.Address,
		Phone:    input.Phone,
		Settings: settings,
	}

	if err := s.centerRepo.Create(ctx, center); err != nil {
		return nil, err
	}

	// Add owner as member
	membership := &entity.CenterMembership{
		CenterID: center.ID,
		UserID:   input.OwnerID,
		Role:     "owner",
	}
	_ = s.centerRepo.AddMember(ctx, membership)

	return center, nil
}

// GetCenter retrieves a center by ID
func (s *CenterService) GetCenter(ctx context.Context, id uuid.UUID) (*entity.Center, error) {
	center, err := s.centerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, apperror.ErrNotFound
	}
	return center, nil
}

// GetUserCenters retrieves all centers a user belongs to
func (s *CenterService) GetUserCenters(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Center], error) {
	centers, total, err := s.centerRepo.GetUserCenters(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(centers, pag), nil
}

// UpdateCenterInput represents input for updating a center
type UpdateCenterInput struct {
	ID       uuid.UUID
	Name     string
	Address  *string
	Phone    *string
	Settings *entity.CenterSettings
}

// UpdateCenter updates a center
func (s *CenterService) UpdateCenter(ctx context.Context, input *UpdateCenterInput) (*entity.Center, error) {
	center, err := s.centerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, apperror.ErrNotFound
	}

	if input.Name != "" {
		center.Name = input.Name
	}
	if input.Address != nil {
		center.Address = input.Address
	}
	if input.Phone != nil {
		center.Phone = input.Phone
	}
	if input.Settings != nil {
		center.Settings = *input.Settings
	}

	if err := s.centerRepo.Update(ctx, center); err != nil {
		return nil, err
	}

	return center, nil
}

// InviteMemberInput represents input for adding a user to a center
type InviteMemberInput struct {
	CenterID uuid.UUID
	UserID   uuid.UUID
	Role     string
}

// InviteMember adds a user to a center
func (s *CenterService) InviteMember(ctx context.Context, input *InviteMemberInput) error {
	// Check if user is already a member
	isMember, _ := s.centerRepo.IsMember(ctx, input.CenterID, input.UserID)
	if isMember {
		return apperror.NewConflictError("User is already a member of this center")
	}

	role := input.Role
	if role == "" {
		role = "member"
	}

	membership := &entity.CenterMembership{
		CenterID: input.CenterID,
		UserID:   input.UserID,
		Role:     role,
	}

	return s.centerRepo.AddMember(ctx, membership)
}

// RemoveMember removes a user from a center
func (s *CenterService) RemoveMember(ctx context.Context, centerID, userID uuid.UUID) error {
	return s.centerRepo.RemoveMember(ctx, centerID, userID)
}

// GetCenterMembers retrieves all members of a center
func (s *CenterService) GetCenterMembers(ctx context.Context, centerID uuid.UUID) ([]entity.CenterMembership, error) {
	members, err := s.centerRepo.GetMembers(ctx, centerID)
	if err != nil {
		return nil, err
	}

	// Populate user details for JSON response
	for i := range members {
		members[i].PopulateUserDetails()
	}

	return members, nil
}

// UpdateMemberRole updates a member's role in a center
func (s *CenterService) UpdateMemberRole(ctx context.Context, centerID, userID uuid.UUID, role string) error {
	return s.centerRepo.UpdateMemberRole(ctx, centerID, userID, role)
}
