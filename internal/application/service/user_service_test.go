package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivaancare/clinic-api/internal/domain/entity"
)

type userFixture struct {
	svc   *UserService
	users *fakeUserRepo
	roles *fakeRoleRepo
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		users: newFakeUserRepo(),
		roles: newFakeRoleRepo(),
	}
	f.svc = NewUserService(f.users, f.roles, newFakePermissionRepo())
	return f
}

func TestUpdateUserProfile(t *testing.T) {
	f := newUserFixture(t)
	user := f.users.put(&entity.User{
		FirstName: "Meera",
		LastName:  "Nair",
		Email:     "meera@nivaan.care",
	})

	designation := "Consultant Allergist"
	registrationNo := "KMC-48213"
	specialty := "Allergy & Immunology"
	updated, err := f.svc.UpdateUserProfile(context.Background(), &UpdateUserProfileInput{
		UserID:         user.ID,
		Designation:    &designation,
		RegistrationNo: &registrationNo,
		Specialty:      &specialty,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Designation)
	assert.Equal(t, "Consultant Allergist", *updated.Designation)
	require.NotNil(t, updated.RegistrationNo)
	assert.Equal(t, "KMC-48213", *updated.RegistrationNo)
	require.NotNil(t, updated.Specialty)
	assert.Equal(t, "Allergy & Immunology", *updated.Specialty)

	// Fields absent from the input stay untouched
	assert.Equal(t, "Meera", updated.FirstName)
	assert.Equal(t, "Nair", updated.LastName)
}

func TestUpdateUserProfile_PartialUpdate(t *testing.T) {
	f := newUserFixture(t)
	designation := "Senior Receptionist"
	user := f.users.put(&entity.User{
		FirstName:   "Rohan",
		LastName:    "Pillai",
		Email:       "rohan@nivaan.care",
		Designation: &designation,
	})

	phone := "+91 98450 12345"
	updated, err := f.svc.UpdateUserProfile(context.Background(), &UpdateUserProfileInput{
		UserID:    user.ID,
		FirstName: "Rohan K",
		Phone:     &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, "Rohan K", updated.FirstName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+91 98450 12345", *updated.Phone)
	require.NotNil(t, updated.Designation)
	assert.Equal(t, "Senior Receptionist", *updated.Designation)
}

func TestUpdateUserProfile_UnknownUser(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.UpdateUserProfile(context.Background(), &UpdateUserProfileInput{
		UserID:    uuid.New(),
		FirstName: "Nobody",
	})
	assert.Error(t, err)
}

func TestUpdateUserRoles(t *testing.T) {
	f := newUserFixture(t)
	doctor := f.roles.put(&entity.Role{Name: "doctor"})
	frontDesk := f.roles.put(&entity.Role{Name: "front-desk"})
	user := f.users.put(&entity.User{
		FirstName: "Meera",
		LastName:  "Nair",
		Email:     "meera@nivaan.care",
		Roles:     []entity.Role{*frontDesk},
	})

	_, err := f.svc.UpdateUserRoles(context.Background(), &UpdateUserRolesInput{
		UserID:  user.ID,
		RoleIDs: []uint{doctor.ID},
	})
	require.NoError(t, err)
}
