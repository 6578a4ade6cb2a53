package dto

import (
	"time"

	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
)

// ReminderReport is the aggregate result of one reminder cycle. Delivery
// failures are carried as data in Errors rather than raised.
type ReminderReport struct {
	TotalSent int       `json:"total_sent"`
	Errors    []string  `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

// RecipientSet is a resolved, deduplicated recipient population together
// with the validation errors produced while resolving it. Identifiers in
// IDs have already passed format validation.
type RecipientSet struct {
	IDs     []entity.RecipientID
	Invalid []string
}
