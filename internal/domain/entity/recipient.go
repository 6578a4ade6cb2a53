package entity

import (
	"fmt"
	"time"
)

// RecipientKind discriminates the two LINE identifier namespaces.
type RecipientKind int

const (
	// RecipientUser is an individual account ("U" + 32 hex chars).
	RecipientUser RecipientKind = iota
	// RecipientGroup is a group chat ("C" + 32 hex chars).
	RecipientGroup
)

func (k RecipientKind) Int() int {
	return int(k)
}

// String returns a short label for logs and error strings.
func (k RecipientKind) String() string {
	switch k {
	case RecipientUser:
		return "user"
	case RecipientGroup:
		return "group"
	default:
		return "unknown"
	}
}

// RecipientID is a validated LINE destination identifier. The zero value
// is invalid; construct one through ParseRecipientID so that a malformed
// identifier can never reach the messaging channel.
type RecipientID struct {
	kind RecipientKind
	raw  string
}

const recipientIDLen = 33 // prefix + 32 hex chars

// ParseRecipientID validates raw against the LINE identifier format
// conventions and returns the tagged identifier.
func ParseRecipientID(raw string) (RecipientID, error) {
	if len(raw) != recipientIDLen {
		return RecipientID{}, fmt.Errorf("recipient id %q: want %d chars, got %d", raw, recipientIDLen, len(raw))
	}

	var kind RecipientKind
	switch raw[0] {
	case 'U':
		kind = RecipientUser
	case 'C':
		kind = RecipientGroup
	default:
		return RecipientID{}, fmt.Errorf("recipient id %q: unknown prefix %q", raw, raw[0])
	}

	for _, c := range raw[1:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return RecipientID{}, fmt.Errorf("recipient id %q: non-hex character %q", raw, c)
		}
	}

	return RecipientID{kind: kind, raw: raw}, nil
}

// Kind reports which namespace the identifier belongs to.
func (r RecipientID) Kind() RecipientKind {
	return r.kind
}

// String returns the raw identifier for use as a push destination.
func (r RecipientID) String() string {
	return r.raw
}

// IsZero reports whether the identifier was never constructed through
// ParseRecipientID.
func (r RecipientID) IsZero() bool {
	return r.raw == ""
}

// Contact represents a tracked recipient (user or group) that has opted
// in to broadcast notifications by interacting with the bot.
type Contact struct {
	ID        string    `gorm:"column:line_id;primaryKey"`
	Kind      int       `gorm:"column:kind"`
	Active    bool      `gorm:"column:active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the Contact entity.
func (Contact) TableName() string {
	return "contacts"
}
