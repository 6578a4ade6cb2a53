package entity

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-date format for interview dates,
	// interpreted in the organizational timezone.
	DateLayout = "2006-01-02"
	// TimeLayout is the time-of-day format with second precision.
	TimeLayout = "15:04:05"
)

// Interview represents one scheduled interview appointment.
type Interview struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	OwnerID     string `gorm:"column:owner_id;index"`
	Interviewee string `gorm:"column:interviewee;size:100"`
	Interviewer string `gorm:"column:interviewer;size:100"`
	// Date and Time are stored as text in the organizational timezone;
	// StartAt is the only place they are combined into an instant.
	Date            string    `gorm:"column:interview_date;index"`
	Time            string    `gorm:"column:interview_time"`
	Reason          string    `gorm:"column:reason;type:text"`
	Reminder24hSent bool      `gorm:"column:reminder_24h_sent;default:false"`
	Reminder3hSent  bool      `gorm:"column:reminder_3h_sent;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the Interview entity.
func (Interview) TableName() string {
	return "interviews"
}

// StartAt combines the date and time columns into an instant in loc.
func (i *Interview) StartAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, i.Date+" "+i.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("interview %d has invalid datetime %q %q: %w", i.ID, i.Date, i.Time, err)
	}
	return t, nil
}
