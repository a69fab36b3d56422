package scheduling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"quitcoach/models"
)

func TestWeekCacheKeys(t *testing.T) {
	assert.Equal(t, "schedule:week:ver:c1", versionKey("c1"))
	assert.Equal(t, "schedule:week:c1:3:2025-06-16", gridKey("c1", 3, models.MustParseDate("2025-06-16")))
}

func TestNoopWeekCache(t *testing.T) {
	var c WeekCache = NoopWeekCache{}
	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, "c1", monday, &models.WeekGrid{}))
	_, ok := c.Get(ctx, "c1", monday)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, "c1"))
}

func TestErrorCodes(t *testing.T) {
	cases := map[string]error{
		"VALIDATION_ERROR":         &ValidationError{Field: "x", Message: "bad"},
		"PAST_DATE":                &PastDateError{},
		"UNKNOWN_TIME_SLOT":        &UnknownSlotError{},
		"SLOT_NOT_REGISTERED":      &SlotNotRegisteredError{},
		"SLOT_HAS_ACTIVE_BOOKINGS": &SlotHasActiveBookingsError{},
		"SLOT_FULL":                &SlotFullError{},
		"ILLEGAL_TRANSITION":       &IllegalTransitionError{},
		"IMMUTABLE_STATE":          &ImmutableStateError{},
		"NOT_FOUND":                &NotFoundError{},
	}
	for code, err := range cases {
		assert.Equal(t, code, ErrorCode(err))
	}
	assert.Empty(t, ErrorCode(assert.AnError))
}
