package models

import (
	"time"

	"gorm.io/gorm"
)

// EquipmentStatus represents the operational state of a piece of equipment
type EquipmentStatus string

const (
	EquipmentOperational      EquipmentStatus = "Operational"
	EquipmentUnderMaintenance EquipmentStatus = "Under Maintenance"
)

var equipmentTransitions = map[EquipmentStatus][]EquipmentStatus{
	EquipmentOperational:      {EquipmentUnderMaintenance},
	EquipmentUnderMaintenance: {EquipmentOperational},
}

// CanTransition reports whether moving from s to next is a legal status change
func (s EquipmentStatus) CanTransition(next EquipmentStatus) bool {
	for _, allowed := range equipmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Equipment is a machine or asset on the gym floor
type Equipment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name   string          `gorm:"type:varchar(255)" json:"name"`
	Status EquipmentStatus `gorm:"type:varchar(50);default:'Operational'" json:"status"`

	// Relationships
	MaintenanceLogs []MaintenanceLog `gorm:"foreignKey:EquipmentID" json:"maintenance_logs,omitempty"`
}
