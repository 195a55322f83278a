package models

import (
	"time"

	"gorm.io/gorm"
)

// Role represents the role of a user
type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// DashboardURL returns the landing page for the role after login
func (r Role) DashboardURL() string {
	switch r {
	case RoleMember:
		return "/member-dashboard.html"
	case RoleTrainer:
		return "/trainer-dashboard.html"
	case RoleAdmin:
		return "/admin-dashboard.html"
	}
	return "/"
}

// User represents a member, trainer or admin account
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	FirstName    string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255)" json:"-"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Gender       string     `gorm:"type:varchar(20)" json:"gender,omitempty"`
	Phone        string     `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Role         Role       `gorm:"type:varchar(20);default:'member'" json:"role"`

	// Denormalized display counters carried by the original schema
	PastClassesCount      int `gorm:"default:0" json:"past_classes_count"`
	UpcomingSessionsCount int `gorm:"default:0" json:"upcoming_sessions_count"`

	// Relationships
	HealthMetrics []HealthMetric        `gorm:"foreignKey:UserID" json:"health_metrics,omitempty"`
	FitnessGoals  []FitnessGoal         `gorm:"foreignKey:UserID" json:"fitness_goals,omitempty"`
	Availability  []TrainerAvailability `gorm:"foreignKey:TrainerID" json:"availability,omitempty"`
	Bills         []Bill                `gorm:"foreignKey:MemberID" json:"bills,omitempty"`
}

// FullName returns "First Last"
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
