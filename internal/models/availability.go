package models

import (
	"time"

	"github.com/teambition/rrule-go"
	"gorm.io/gorm"
)

// Weekday is a day-of-week for an availability slot
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Valid reports whether the weekday is one of Monday..Sunday
func (d Weekday) Valid() bool {
	_, ok := weekdayRules[d]
	return ok
}

var weekdayRules = map[Weekday]rrule.Weekday{
	Monday:    rrule.MO,
	Tuesday:   rrule.TU,
	Wednesday: rrule.WE,
	Thursday:  rrule.TH,
	Friday:    rrule.FR,
	Saturday:  rrule.SA,
	Sunday:    rrule.SU,
}

// Frequency describes how often an availability slot repeats
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyOneTime Frequency = "one-time"
)

// Valid reports whether the frequency is one of the known frequencies
func (f Frequency) Valid() bool {
	return f == FrequencyWeekly || f == FrequencyOneTime
}

// TrainerAvailability is a recurring or one-time time slot a trainer offers.
// Start and end are times of day ("HH:MM"), no date component.
type TrainerAvailability struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	TrainerID uint      `gorm:"index" json:"trainer_id"`
	DayOfWeek Weekday   `gorm:"type:varchar(10)" json:"day_of_week"`
	StartTime string    `gorm:"type:varchar(5)" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5)" json:"end_time"`
	Frequency Frequency `gorm:"type:varchar(20);default:'weekly'" json:"frequency"`

	// Relationships
	Trainer User `gorm:"foreignKey:TrainerID" json:"trainer,omitempty"`
}

// Occurrences expands the slot into concrete start times within [from, until].
// Weekly slots recur every week on their day; one-time slots contribute only
// the first occurrence on or after from.
func (a TrainerAvailability) Occurrences(from, until time.Time) []time.Time {
	day, ok := weekdayRules[a.DayOfWeek]
	if !ok {
		return nil
	}
	start, err := time.Parse("15:04", a.StartTime)
	if err != nil {
		return nil
	}

	dtstart := time.Date(from.Year(), from.Month(), from.Day(),
		start.Hour(), start.Minute(), 0, 0, from.Location())

	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{day},
		Dtstart:   dtstart,
	}
	if a.Frequency == FrequencyOneTime {
		opt.Count = 1
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}
	return rule.Between(from, until, true)
}
