package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeaveDaysInclusive(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		endDate   string
		want      int
	}{
		{"single day", "2026-03-10", "2026-03-10", 1},
		{"full week", "2026-03-02", "2026-03-08", 7},
		{"across month boundary", "2026-01-30", "2026-02-02", 4},
		{"end before start", "2026-03-10", "2026-03-09", 0},
		{"malformed start", "10-03-2026", "2026-03-12", 0},
		{"malformed end", "2026-03-10", "not-a-date", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LeaveDaysInclusive(tt.startDate, tt.endDate))
		})
	}
}

func TestLeaveRequestCanReview(t *testing.T) {
	assert.True(t, (&LeaveRequest{Status: LeaveStatusPending}).CanReview())
	assert.False(t, (&LeaveRequest{Status: LeaveStatusApproved}).CanReview())
	assert.False(t, (&LeaveRequest{Status: LeaveStatusRejected}).CanReview())
}
