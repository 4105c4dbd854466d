package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoursWorked(t *testing.T) {
	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("full day rounded to one decimal", func(t *testing.T) {
		checkOut := checkIn.Add(8*time.Hour + 17*time.Minute)
		a := &Attendance{CheckIn: &checkIn, CheckOut: &checkOut}

		hours := a.HoursWorked()
		require.NotNil(t, hours)
		assert.Equal(t, 8.3, *hours)
	})

	t.Run("missing check-out", func(t *testing.T) {
		a := &Attendance{CheckIn: &checkIn}
		assert.Nil(t, a.HoursWorked())
	})

	t.Run("missing check-in", func(t *testing.T) {
		checkOut := checkIn.Add(4 * time.Hour)
		a := &Attendance{CheckOut: &checkOut}
		assert.Nil(t, a.HoursWorked())
	})

	t.Run("leave row without timestamps", func(t *testing.T) {
		a := &Attendance{Status: AttendanceStatusLeave}
		assert.Nil(t, a.HoursWorked())
	})
}
