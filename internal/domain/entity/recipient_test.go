package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipientID(t *testing.T) {
	validUser := "U" + strings.Repeat("0123456789abcdef", 2)
	validGroup := "C" + strings.Repeat("fedcba9876543210", 2)

	tests := []struct {
		name     string
		raw      string
		wantKind RecipientKind
		wantErr  bool
	}{
		{name: "valid user id", raw: validUser, wantKind: RecipientUser},
		{name: "valid group id", raw: validGroup, wantKind: RecipientGroup},
		{name: "empty", raw: "", wantErr: true},
		{name: "wrong prefix", raw: "R" + strings.Repeat("ab", 16), wantErr: true},
		{name: "lowercase prefix", raw: "u" + strings.Repeat("ab", 16), wantErr: true},
		{name: "too short", raw: "U" + strings.Repeat("ab", 15), wantErr: true},
		{name: "too long", raw: validUser + "a", wantErr: true},
		{name: "uppercase hex body", raw: "U" + strings.Repeat("AB", 16), wantErr: true},
		{name: "non-hex body", raw: "U" + strings.Repeat("zz", 16), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseRecipientID(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, id.Kind())
			assert.Equal(t, tt.raw, id.String())
			assert.False(t, id.IsZero())
		})
	}
}

func TestInterviewStartAt(t *testing.T) {
	loc := time.FixedZone("ORG", 8*3600)

	iv := &Interview{ID: 1, Date: "2026-09-01", Time: "14:30:00"}
	start, err := iv.StartAt(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 14, 30, 0, 0, loc), start)

	bad := &Interview{ID: 2, Date: "2026-13-01", Time: "14:30:00"}
	_, err = bad.StartAt(loc)
	require.Error(t, err)

	badTime := &Interview{ID: 3, Date: "2026-09-01", Time: "25:00:00"}
	_, err = badTime.StartAt(loc)
	require.Error(t, err)
}
