package models

import (
	"time"

	"gorm.io/gorm"
)

// RepairStatus represents the state of a repair task
type RepairStatus string

const (
	RepairWorking   RepairStatus = "working"
	RepairCompleted RepairStatus = "completed"
)

var repairTransitions = map[RepairStatus][]RepairStatus{
	RepairWorking: {RepairCompleted},
}

// CanTransition reports whether moving from s to next is a legal status change
func (s RepairStatus) CanTransition(next RepairStatus) bool {
	for _, allowed := range repairTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RepairTask is the single repair assignment for a maintenance log
type RepairTask struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	LogID      uint         `gorm:"uniqueIndex" json:"log_id"`
	AssignedTo string       `gorm:"type:varchar(255)" json:"assigned_to"`
	StartTime  time.Time    `json:"start_time"`
	EndTime    time.Time    `json:"end_time"`
	Status     RepairStatus `gorm:"type:varchar(20);default:'working'" json:"status"`

	// Relationships
	MaintenanceLog MaintenanceLog `gorm:"foreignKey:LogID" json:"maintenance_log,omitempty"`
}
