package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gymtrack_echo/internal/models"
)

// AccountService manages user registration, credentials and profiles
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an AccountService on the given store
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// RegisterInput carries the fields of a registration submission
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	DateOfBirth *time.Time
	Gender      string
	Phone       string
	Role        models.Role
}

// Register creates a new user with a bcrypt password hash. A duplicate email
// surfaces as a unique-constraint StoreError and maps to 400 at the boundary.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, &ValidationError{Message: "All required fields must be filled"}
	}
	if !in.Role.Valid() {
		return nil, Validationf("Invalid role %q", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storeErr("hash password", err)
	}

	user := models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		DateOfBirth:  in.DateOfBirth,
		Gender:       in.Gender,
		Phone:        in.Phone,
		Role:         in.Role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, storeErr("create user", err)
	}
	return &user, nil
}

// Authenticate checks a member's credentials. The failure shape is identical
// for unknown emails and wrong passwords.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, &ValidationError{Message: "Email and password are required"}
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ValidationError{Message: "Invalid email or password"}
	}
	if err != nil {
		return nil, storeErr("lookup user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, &ValidationError{Message: "Invalid email or password"}
	}
	return &user, nil
}

// GetUser loads a user by id
func (s *AccountService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "User"}
	}
	if err != nil {
		return nil, storeErr("load user", err)
	}
	return &user, nil
}

// GetMember loads a user by id, requiring the member role
func (s *AccountService) GetMember(ctx context.Context, memberID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND role = ?", memberID, models.RoleMember).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "Member"}
	}
	if err != nil {
		return nil, storeErr("load member", err)
	}
	return &user, nil
}

// ListMembers returns all members ordered by name
func (s *AccountService) ListMembers(ctx context.Context) ([]models.User, error) {
	var members []models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleMember).
		Order("first_name asc").Order("last_name asc").
		Find(&members).Error
	if err != nil {
		return nil, storeErr("list members", err)
	}
	return members, nil
}

// CountByRole counts users holding the given role
func (s *AccountService) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", role).Count(&count).Error
	if err != nil {
		return 0, storeErr("count users", err)
	}
	return count, nil
}

// UpdateProfileInput carries the optional fields of a profile update; empty
// fields are left untouched
type UpdateProfileInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	DateOfBirth *time.Time
	Gender      string
	Phone       string
}

// UpdateProfile applies a partial update to a user's profile
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.FirstName != "" {
		updates["first_name"] = in.FirstName
	}
	if in.LastName != "" {
		updates["last_name"] = in.LastName
	}
	if in.Email != "" {
		updates["email"] = in.Email
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, storeErr("hash password", err)
		}
		updates["password_hash"] = string(hash)
	}
	if in.DateOfBirth != nil {
		updates["date_of_birth"] = in.DateOfBirth
	}
	if in.Gender != "" {
		updates["gender"] = in.Gender
	}
	if in.Phone != "" {
		updates["phone"] = in.Phone
	}
	if len(updates) == 0 {
		return nil, &ValidationError{Message: "No fields to update"}
	}

	if in.Email != "" {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", in.Email, userID).
			Count(&count).Error
		if err != nil {
			return nil, storeErr("check email", err)
		}
		if count > 0 {
			return nil, &ValidationError{Message: "Email already exists"}
		}
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, storeErr("update user", err)
	}
	return user, nil
}
