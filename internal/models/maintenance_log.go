package models

import (
	"time"

	"gorm.io/gorm"
)

// MaintenanceStatus represents the lifecycle of a reported equipment issue
type MaintenanceStatus string

const (
	MaintenanceReported   MaintenanceStatus = "Reported"
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceResolved   MaintenanceStatus = "Resolved"
)

var maintenanceTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	MaintenanceReported:   {MaintenanceInProgress},
	MaintenanceInProgress: {MaintenanceResolved},
}

// CanTransition reports whether moving from s to next is a legal status change
func (s MaintenanceStatus) CanTransition(next MaintenanceStatus) bool {
	for _, allowed := range maintenanceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MaintenanceLog records a reported issue against a piece of equipment
type MaintenanceLog struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	EquipmentID      uint              `gorm:"index" json:"equipment_id"`
	ReportedBy       uint              `gorm:"index" json:"reported_by"`
	IssueDescription string            `gorm:"type:text" json:"issue_description"`
	Status           MaintenanceStatus `gorm:"type:varchar(50);default:'Reported'" json:"status"`
	ReportedDate     time.Time         `json:"reported_date"`

	// Relationships
	Equipment  Equipment   `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	Reporter   User        `gorm:"foreignKey:ReportedBy" json:"reporter,omitempty"`
	RepairTask *RepairTask `gorm:"foreignKey:LogID" json:"repair_task,omitempty"`
}
