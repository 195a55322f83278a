package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"gymtrack_echo/internal/models"
)

// MaintenanceService manages equipment, their maintenance logs and repair
// tasks. Status changes go through the models' transition tables; an invalid
// transition is rejected instead of written.
type MaintenanceService struct {
	db *gorm.DB
}

// NewMaintenanceService creates a MaintenanceService on the given store
func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

// AddEquipment registers a new Operational piece of equipment
func (s *MaintenanceService) AddEquipment(ctx context.Context, name string) (*models.Equipment, error) {
	if name == "" {
		return nil, &ValidationError{Message: "Equipment name is required"}
	}
	equipment := models.Equipment{
		Name:   name,
		Status: models.EquipmentOperational,
	}
	if err := s.db.WithContext(ctx).Create(&equipment).Error; err != nil {
		return nil, storeErr("create equipment", err)
	}
	return &equipment, nil
}

// ListEquipment returns all equipment ordered by name
func (s *MaintenanceService) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	var equipment []models.Equipment
	err := s.db.WithContext(ctx).Order("name asc").Find(&equipment).Error
	if err != nil {
		return nil, storeErr("list equipment", err)
	}
	return equipment, nil
}

// ReportIssue creates a Reported maintenance log and flips the equipment to
// Under Maintenance in one transaction
func (s *MaintenanceService) ReportIssue(ctx context.Context, equipmentID, reporterID uint, description string) (*models.MaintenanceLog, error) {
	if equipmentID == 0 || description == "" {
		return nil, &ValidationError{Message: "All fields are required"}
	}

	var logEntry models.MaintenanceLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var equipment models.Equipment
		err := tx.First(&equipment, equipmentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Equipment"}
		}
		if err != nil {
			return storeErr("load equipment", err)
		}

		logEntry = models.MaintenanceLog{
			EquipmentID:      equipmentID,
			ReportedBy:       reporterID,
			IssueDescription: description,
			Status:           models.MaintenanceReported,
			ReportedDate:     time.Now(),
		}
		if err := tx.Create(&logEntry).Error; err != nil {
			return storeErr("create maintenance log", err)
		}

		if equipment.Status != models.EquipmentUnderMaintenance {
			if !equipment.Status.CanTransition(models.EquipmentUnderMaintenance) {
				return Validationf("Equipment cannot move from %q to %q",
					equipment.Status, models.EquipmentUnderMaintenance)
			}
			err := tx.Model(&equipment).
				Update("status", models.EquipmentUnderMaintenance).Error
			if err != nil {
				return storeErr("update equipment status", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &logEntry, nil
}

// AssignRepair creates the repair task for a maintenance log and moves the
// log to In Progress. A log takes at most one task.
func (s *MaintenanceService) AssignRepair(ctx context.Context, logID uint, technician string, start, end time.Time) (*models.RepairTask, error) {
	if logID == 0 || technician == "" || start.IsZero() || end.IsZero() {
		return nil, &ValidationError{Message: "All fields are required"}
	}
	if !start.Before(end) {
		return nil, &ValidationError{Message: "Start time must be before end time"}
	}

	var task models.RepairTask
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var logEntry models.MaintenanceLog
		err := tx.First(&logEntry, logID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Maintenance log"}
		}
		if err != nil {
			return storeErr("load maintenance log", err)
		}

		var count int64
		if err := tx.Model(&models.RepairTask{}).Where("log_id = ?", logID).Count(&count).Error; err != nil {
			return storeErr("check existing task", err)
		}
		if count > 0 {
			return &ValidationError{Message: "Repair task already exists for this maintenance log"}
		}

		if !logEntry.Status.CanTransition(models.MaintenanceInProgress) {
			return Validationf("Maintenance log cannot move from %q to %q",
				logEntry.Status, models.MaintenanceInProgress)
		}

		task = models.RepairTask{
			LogID:      logID,
			AssignedTo: technician,
			StartTime:  start,
			EndTime:    end,
			Status:     models.RepairWorking,
		}
		if err := tx.Create(&task).Error; err != nil {
			return storeErr("create repair task", err)
		}

		err = tx.Model(&logEntry).Update("status", models.MaintenanceInProgress).Error
		if err != nil {
			return storeErr("update log status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// CompleteRepair finishes a repair task: the task is completed with its end
// time set to now, the log resolved, and the equipment restored to
// Operational, all in one transaction.
func (s *MaintenanceService) CompleteRepair(ctx context.Context, taskID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.RepairTask
		err := tx.Preload("MaintenanceLog").First(&task, taskID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Repair task"}
		}
		if err != nil {
			return storeErr("load repair task", err)
		}

		if !task.Status.CanTransition(models.RepairCompleted) {
			return Validationf("Repair task cannot move from %q to %q",
				task.Status, models.RepairCompleted)
		}
		if !task.MaintenanceLog.Status.CanTransition(models.MaintenanceResolved) {
			return Validationf("Maintenance log cannot move from %q to %q",
				task.MaintenanceLog.Status, models.MaintenanceResolved)
		}

		err = tx.Model(&task).Updates(map[string]interface{}{
			"status":   models.RepairCompleted,
			"end_time": time.Now(),
		}).Error
		if err != nil {
			return storeErr("update repair task", err)
		}

		err = tx.Model(&models.MaintenanceLog{}).
			Where("id = ?", task.LogID).
			Update("status", models.MaintenanceResolved).Error
		if err != nil {
			return storeErr("update log status", err)
		}

		var equipment models.Equipment
		if err := tx.First(&equipment, task.MaintenanceLog.EquipmentID).Error; err != nil {
			return storeErr("load equipment", err)
		}
		if equipment.Status != models.EquipmentOperational {
			if !equipment.Status.CanTransition(models.EquipmentOperational) {
				return Validationf("Equipment cannot move from %q to %q",
					equipment.Status, models.EquipmentOperational)
			}
			err := tx.Model(&equipment).
				Update("status", models.EquipmentOperational).Error
			if err != nil {
				return storeErr("update equipment status", err)
			}
		}
		return nil
	})
}

// ListLogs returns all maintenance logs with equipment and reporter,
// newest report first
func (s *MaintenanceService) ListLogs(ctx context.Context) ([]models.MaintenanceLog, error) {
	var logs []models.MaintenanceLog
	err := s.db.WithContext(ctx).
		Preload("Equipment").Preload("Reporter").
		Order("reported_date desc").
		Find(&logs).Error
	if err != nil {
		return nil, storeErr("list maintenance logs", err)
	}
	return logs, nil
}

// ListTasks returns all repair tasks with their log and equipment,
// newest start first
func (s *MaintenanceService) ListTasks(ctx context.Context) ([]models.RepairTask, error) {
	var tasks []models.RepairTask
	err := s.db.WithContext(ctx).
		Preload("MaintenanceLog").Preload("MaintenanceLog.Equipment").
		Order("start_time desc").
		Find(&tasks).Error
	if err != nil {
		return nil, storeErr("list repair tasks", err)
	}
	return tasks, nil
}

// OpenIssueCount counts maintenance logs that are not yet resolved
func (s *MaintenanceService) OpenIssueCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.MaintenanceLog{}).
		Where("status IN ?", []models.MaintenanceStatus{models.MaintenanceReported, models.MaintenanceInProgress}).
		Count(&count).Error
	if err != nil {
		return 0, storeErr("count open issues", err)
	}
	return count, nil
}
