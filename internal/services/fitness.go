package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"gymtrack_echo/internal/models"
)

// FitnessService manages health metric readings and fitness goals
type FitnessService struct {
	db *gorm.DB
}

// NewFitnessService creates a FitnessService on the given store
func NewFitnessService(db *gorm.DB) *FitnessService {
	return &FitnessService{db: db}
}

// AddMetric logs a new health reading for a member
func (s *FitnessService) AddMetric(ctx context.Context, userID uint, metricType models.MetricType, value float64) (*models.HealthMetric, error) {
	if !metricType.Valid() {
		return nil, Validationf("Invalid metric type %q", metricType)
	}

	metric := models.HealthMetric{
		UserID:     userID,
		MetricType: metricType,
		Value:      value,
		LoggedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&metric).Error; err != nil {
		return nil, storeErr("create metric", err)
	}
	return &metric, nil
}

// History returns all readings of one metric type for a member, oldest first
func (s *FitnessService) History(ctx context.Context, userID uint, metricType models.MetricType) ([]models.HealthMetric, error) {
	if !metricType.Valid() {
		return nil, Validationf("Invalid metric type %q", metricType)
	}

	var history []models.HealthMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND metric_type = ?", userID, metricType).
		Order("logged_at asc").
		Find(&history).Error
	if err != nil {
		return nil, storeErr("load metric history", err)
	}
	return history, nil
}

// LatestMetrics returns the most recent reading per metric type
func (s *FitnessService) LatestMetrics(ctx context.Context, userID uint) (map[models.MetricType]float64, error) {
	var metrics []models.HealthMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at desc").
		Find(&metrics).Error
	if err != nil {
		return nil, storeErr("load metrics", err)
	}

	latest := make(map[models.MetricType]float64)
	for _, m := range metrics {
		if _, seen := latest[m.MetricType]; !seen {
			latest[m.MetricType] = m.Value
		}
	}
	return latest, nil
}

// SetGoalInput carries the fields of a goal submission
type SetGoalInput struct {
	GoalType    models.GoalType
	TargetValue float64
	StartDate   time.Time
	TargetDate  *time.Time
}

// SetGoal creates a new active goal, deactivating any prior active goal of
// the same type in the same transaction so only one stays active.
func (s *FitnessService) SetGoal(ctx context.Context, userID uint, in SetGoalInput) (*models.FitnessGoal, error) {
	if !in.GoalType.Valid() {
		return nil, Validationf("Invalid goal type %q", in.GoalType)
	}
	if in.StartDate.IsZero() {
		in.StartDate = time.Now()
	}

	var goal models.FitnessGoal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.FitnessGoal{}).
			Where("user_id = ? AND goal_type = ? AND is_active = ?", userID, in.GoalType, true).
			Update("is_active", false).Error
		if err != nil {
			return storeErr("deactivate goals", err)
		}

		goal = models.FitnessGoal{
			UserID:      userID,
			GoalType:    in.GoalType,
			TargetValue: in.TargetValue,
			StartDate:   in.StartDate,
			TargetDate:  in.TargetDate,
			IsActive:    true,
		}
		if err := tx.Create(&goal).Error; err != nil {
			return storeErr("create goal", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// ActiveGoal returns the member's most recently created active goal, or nil
func (s *FitnessService) ActiveGoal(ctx context.Context, userID uint) (*models.FitnessGoal, error) {
	var goal models.FitnessGoal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at desc").
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("load active goal", err)
	}
	return &goal, nil
}

// GoalProgress relates a goal target to the member's latest reading
type GoalProgress struct {
	Current    float64 `json:"current"`
	Target     float64 `json:"target"`
	Progress   float64 `json:"progress"`
	Percentage float64 `json:"percentage"`
}

// ComputeProgress derives progress figures for a goal given the current
// reading of its metric. Percentage is clamped to [0, 100].
func ComputeProgress(goal models.FitnessGoal, current float64) GoalProgress {
	percentage := 0.0
	if goal.TargetValue != 0 {
		percentage = current / goal.TargetValue * 100
	}
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	return GoalProgress{
		Current:    current,
		Target:     goal.TargetValue,
		Progress:   goal.TargetValue - current,
		Percentage: percentage,
	}
}
