package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gymtrack_echo/internal/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		FirstName: "Ada",
		LastName:  "Lim",
		Email:     "ada@gym.test",
		Password:  "correct horse",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", user.PasswordHash, "password is stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")))

	authed, err := svc.Authenticate(ctx, "ada@gym.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	// Unknown email and wrong password fail identically
	_, badEmail := svc.Authenticate(ctx, "nobody@gym.test", "correct horse")
	_, badPassword := svc.Authenticate(ctx, "ada@gym.test", "wrong")
	require.Error(t, badEmail)
	require.Error(t, badPassword)
	assert.Equal(t, badEmail.Error(), badPassword.Error())
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)
	ctx := context.Background()

	var validationErr *ValidationError

	_, err := svc.Register(ctx, RegisterInput{
		FirstName: "Ada", Email: "ada@gym.test", Password: "pw", Role: models.RoleMember,
	})
	assert.ErrorAs(t, err, &validationErr, "last name required")

	_, err = svc.Register(ctx, RegisterInput{
		FirstName: "Ada", LastName: "Lim", Email: "ada@gym.test", Password: "pw", Role: "owner",
	})
	assert.ErrorAs(t, err, &validationErr, "role must be known")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)
	ctx := context.Background()

	in := RegisterInput{
		FirstName: "Ada",
		LastName:  "Lim",
		Email:     "ada@gym.test",
		Password:  "pw",
		Role:      models.RoleMember,
	}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "duplicate surfaces as a translated store error")
}

func TestGetMemberRequiresRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)
	trainer := createUser(t, db, models.RoleTrainer, "trainer@gym.test")
	member := createUser(t, db, models.RoleMember, "member@gym.test")
	ctx := context.Background()

	got, err := svc.GetMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, got.ID)

	var notFoundErr *NotFoundError
	_, err = svc.GetMember(ctx, trainer.ID)
	assert.ErrorAs(t, err, &notFoundErr, "a trainer is not a member")
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)
	user := createUser(t, db, models.RoleMember, "member@gym.test")
	createUser(t, db, models.RoleMember, "taken@gym.test")
	ctx := context.Background()

	var validationErr *ValidationError

	_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "No fields to update", validationErr.Message)

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Email: "taken@gym.test"})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Email already exists", validationErr.Message)

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		FirstName: "Grace",
		Phone:     "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "Grace", stored.FirstName)
	assert.Equal(t, "555-0100", stored.Phone)
	assert.Equal(t, "member@gym.test", stored.Email, "untouched fields survive")

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Password: "new password"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "member@gym.test", "new password")
	assert.NoError(t, err, "password change takes effect")
}

func TestListMembersAndCounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)
	createUser(t, db, models.RoleMember, "b@gym.test")
	createUser(t, db, models.RoleMember, "a@gym.test")
	createUser(t, db, models.RoleTrainer, "t@gym.test")
	createUser(t, db, models.RoleAdmin, "admin@gym.test")
	ctx := context.Background()

	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	count, err := svc.CountByRole(ctx, models.RoleTrainer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
