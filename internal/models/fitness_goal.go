package models

import (
	"time"

	"gorm.io/gorm"
)

// GoalType represents the kind of target a member is working towards
type GoalType string

const (
	GoalTargetWeight  GoalType = "target_weight"
	GoalTargetBodyFat GoalType = "target_body_fat"
	GoalTargetMaxHR   GoalType = "target_max_hr"
)

// Valid reports whether the goal type is one of the known types
func (g GoalType) Valid() bool {
	switch g {
	case GoalTargetWeight, GoalTargetBodyFat, GoalTargetMaxHR:
		return true
	}
	return false
}

// MetricType returns the health metric a goal of this type is measured against
func (g GoalType) MetricType() MetricType {
	switch g {
	case GoalTargetWeight:
		return MetricWeight
	case GoalTargetBodyFat:
		return MetricBodyFat
	case GoalTargetMaxHR:
		return MetricMaxHR
	}
	return ""
}

// FitnessGoal is a target record per member and goal type.
// At most one goal per (member, goal type) is active at a time.
type FitnessGoal struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID      uint       `gorm:"index" json:"user_id"`
	GoalType    GoalType   `gorm:"type:varchar(30)" json:"goal_type"`
	TargetValue float64    `json:"target_value"`
	StartDate   time.Time  `json:"start_date"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	IsActive    bool       `gorm:"default:true;index" json:"is_active"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
