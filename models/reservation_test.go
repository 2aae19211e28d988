package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDay(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStayNights(t *testing.T) {
	assert.Equal(t, 2, StayNights(mustDay("2024-03-01"), mustDay("2024-03-03")))
	assert.Equal(t, 1, StayNights(mustDay("2024-03-01"), mustDay("2024-03-02")))
	// same-day never collapses below one night
	assert.Equal(t, 1, StayNights(mustDay("2024-03-01"), mustDay("2024-03-01")))
}

func TestOverlapsHalfOpenInterval(t *testing.T) {
	r := Reservation{CheckIn: mustDay("2024-03-01"), CheckOut: mustDay("2024-03-03")}

	assert.True(t, r.Overlaps(mustDay("2024-03-02"), mustDay("2024-03-04")))
	assert.True(t, r.Overlaps(mustDay("2024-02-28"), mustDay("2024-03-02")))
	assert.True(t, r.Overlaps(mustDay("2024-03-01"), mustDay("2024-03-03")))

	// back-to-back stays share a day but not a night
	assert.False(t, r.Overlaps(mustDay("2024-03-03"), mustDay("2024-03-05")))
	assert.False(t, r.Overlaps(mustDay("2024-02-27"), mustDay("2024-03-01")))
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, ReservationCompleted.Terminal())
	assert.True(t, ReservationCancelled.Terminal())
	assert.False(t, ReservationTentative.Terminal())
	assert.False(t, ReservationConfirmed.Terminal())
	assert.False(t, ReservationCheckedIn.Terminal())
}
