package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"gymtrack_echo/internal/models"
)

// AvailabilityService validates trainer time-slot submissions and guards
// against overlapping slots.
type AvailabilityService struct {
	db *gorm.DB
}

// NewAvailabilityService creates an AvailabilityService on the given store
func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// parseClock parses an "HH:MM" time of day into minutes since midnight.
// Times are compared numerically, never as raw strings.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// intervalsOverlap tests two [start, end) intervals in minutes since
// midnight. Exact adjacency is not an overlap.
func intervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// AvailabilityInput is a multi-day slot submission
type AvailabilityInput struct {
	Days      []models.Weekday
	StartTime string
	EndTime   string
	Frequency models.Frequency
}

// ValidateAvailability checks a submission for internal consistency
func ValidateAvailability(in AvailabilityInput) error {
	if len(in.Days) == 0 {
		return &ValidationError{Message: "At least one day is required"}
	}
	seen := make(map[models.Weekday]bool, len(in.Days))
	for _, day := range in.Days {
		if !day.Valid() {
			return Validationf("Invalid day of week %q", day)
		}
		if seen[day] {
			return Validationf("Day %s is listed more than once", day)
		}
		seen[day] = true
	}
	if in.StartTime == "" || in.EndTime == "" {
		return &ValidationError{Message: "Start and end times are required"}
	}
	start, err := parseClock(in.StartTime)
	if err != nil {
		return &ValidationError{Message: "Invalid time format"}
	}
	end, err := parseClock(in.EndTime)
	if err != nil {
		return &ValidationError{Message: "Invalid time format"}
	}
	if start >= end {
		return &ValidationError{Message: "Start time must be before end time"}
	}
	if !in.Frequency.Valid() {
		return Validationf("Invalid frequency %q", in.Frequency)
	}
	return nil
}

// HasOverlap reports whether [start, end) collides with any existing slot
// for the trainer on the given day
func (s *AvailabilityService) HasOverlap(ctx context.Context, trainerID uint, day models.Weekday, startTime, endTime string) (bool, error) {
	return s.hasOverlap(s.db.WithContext(ctx), trainerID, day, startTime, endTime)
}

func (s *AvailabilityService) hasOverlap(db *gorm.DB, trainerID uint, day models.Weekday, startTime, endTime string) (bool, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return false, &ValidationError{Message: "Invalid time format"}
	}
	end, err := parseClock(endTime)
	if err != nil {
		return false, &ValidationError{Message: "Invalid time format"}
	}

	var existing []models.TrainerAvailability
	err = db.Where("trainer_id = ? AND day_of_week = ?", trainerID, day).
		Find(&existing).Error
	if err != nil {
		return false, storeErr("load availability", err)
	}

	for _, slot := range existing {
		slotStart, err := parseClock(slot.StartTime)
		if err != nil {
			continue
		}
		slotEnd, err := parseClock(slot.EndTime)
		if err != nil {
			continue
		}
		if intervalsOverlap(start, end, slotStart, slotEnd) {
			return true, nil
		}
	}
	return false, nil
}

// CheckOverlaps tests every day of a multi-day submission; any single
// overlapping day makes the whole submission conflict
func (s *AvailabilityService) CheckOverlaps(ctx context.Context, trainerID uint, days []models.Weekday, startTime, endTime string) (bool, error) {
	for _, day := range days {
		overlap, err := s.HasOverlap(ctx, trainerID, day, startTime, endTime)
		if err != nil {
			return false, err
		}
		if overlap {
			return true, nil
		}
	}
	return false, nil
}

// Add validates and stores a multi-day submission. All-or-nothing: if any
// selected day overlaps an existing slot, no rows are created.
func (s *AvailabilityService) Add(ctx context.Context, trainerID uint, in AvailabilityInput) ([]models.TrainerAvailability, error) {
	if err := ValidateAvailability(in); err != nil {
		return nil, err
	}

	var created []models.TrainerAvailability
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, day := range in.Days {
			overlap, err := s.hasOverlap(tx, trainerID, day, in.StartTime, in.EndTime)
			if err != nil {
				return err
			}
			if overlap {
				return Validationf("Time slot overlaps an existing slot on %s", day)
			}
		}

		for _, day := range in.Days {
			slot := models.TrainerAvailability{
				TrainerID: trainerID,
				DayOfWeek: day,
				StartTime: in.StartTime,
				EndTime:   in.EndTime,
				Frequency: in.Frequency,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return storeErr("create availability", err)
			}
			created = append(created, slot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List returns a trainer's slots ordered by day then start time
func (s *AvailabilityService) List(ctx context.Context, trainerID uint) ([]models.TrainerAvailability, error) {
	var slots []models.TrainerAvailability
	err := s.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Order("day_of_week asc").Order("start_time asc").
		Find(&slots).Error
	if err != nil {
		return nil, storeErr("list availability", err)
	}
	return slots, nil
}

// Remove deletes a slot if it belongs to the trainer
func (s *AvailabilityService) Remove(ctx context.Context, trainerID, availabilityID uint) error {
	var slot models.TrainerAvailability
	err := s.db.WithContext(ctx).
		Where("id = ? AND trainer_id = ?", availabilityID, trainerID).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "Availability"}
	}
	if err != nil {
		return storeErr("load availability", err)
	}
	if err := s.db.WithContext(ctx).Delete(&slot).Error; err != nil {
		return storeErr("delete availability", err)
	}
	return nil
}

// SessionOccurrence is a concrete upcoming occurrence of an availability slot
type SessionOccurrence struct {
	AvailabilityID uint             `json:"availability_id"`
	DayOfWeek      models.Weekday   `json:"day_of_week"`
	Start          time.Time        `json:"start"`
	End            time.Time        `json:"end"`
	Frequency      models.Frequency `json:"frequency"`
}

// UpcomingSessions expands a trainer's slots into concrete occurrences in
// [from, from+window], ordered by start time
func (s *AvailabilityService) UpcomingSessions(ctx context.Context, trainerID uint, from time.Time, window time.Duration) ([]SessionOccurrence, error) {
	slots, err := s.List(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	var sessions []SessionOccurrence
	until := from.Add(window)
	for _, slot := range slots {
		startMin, err := parseClock(slot.StartTime)
		if err != nil {
			continue
		}
		endMin, err := parseClock(slot.EndTime)
		if err != nil {
			continue
		}
		duration := time.Duration(endMin-startMin) * time.Minute

		for _, start := range slot.Occurrences(from, until) {
			sessions = append(sessions, SessionOccurrence{
				AvailabilityID: slot.ID,
				DayOfWeek:      slot.DayOfWeek,
				Start:          start,
				End:            start.Add(duration),
				Frequency:      slot.Frequency,
			})
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Start.Before(sessions[j].Start)
	})
	return sessions, nil
}
