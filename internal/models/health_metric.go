package models

import (
	"time"

	"gorm.io/gorm"
)

// MetricType represents the kind of health reading being logged
type MetricType string

const (
	MetricWeight  MetricType = "weight"
	MetricBodyFat MetricType = "body_fat"
	MetricMaxHR   MetricType = "max_hr"
)

// Valid reports whether the metric type is one of the known types
func (m MetricType) Valid() bool {
	switch m {
	case MetricWeight, MetricBodyFat, MetricMaxHR:
		return true
	}
	return false
}

// HealthMetric is a time-stamped scalar reading for a member
type HealthMetric struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID     uint       `gorm:"index" json:"user_id"`
	MetricType MetricType `gorm:"type:varchar(20);index" json:"metric_type"`
	Value      float64    `json:"current_value"`
	LoggedAt   time.Time  `gorm:"index" json:"logged_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
