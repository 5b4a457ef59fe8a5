package models

import (
	"testing"
	"time"
)

func TestAssignmentStatusIsValid(t *testing.T) {
	valid := []AssignmentStatus{
		StatusAssigned, StatusInProgress, StatusSubmitted,
		StatusReviewed, StatusCompleted, StatusFailed,
	}
	for _, status := range valid {
		if !status.IsValid() {
			t.Errorf("expected %q to be valid", status)
		}
	}

	for _, status := range []AssignmentStatus{"", "pending", "done", "ASSIGNED"} {
		if status.IsValid() {
			t.Errorf("expected %q to be invalid", status)
		}
	}
}

func TestAssignmentStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AssignmentStatus
		to      AssignmentStatus
		allowed bool
	}{
		{StatusAssigned, StatusInProgress, true},
		{StatusAssigned, StatusFailed, true},
		{StatusAssigned, StatusSubmitted, false},
		{StatusAssigned, StatusCompleted, false},
		{StatusInProgress, StatusSubmitted, true},
		{StatusInProgress, StatusFailed, true},
		{StatusInProgress, StatusAssigned, false},
		{StatusInProgress, StatusCompleted, false},
		{StatusSubmitted, StatusReviewed, true},
		{StatusSubmitted, StatusCompleted, true},
		{StatusSubmitted, StatusFailed, true},
		{StatusSubmitted, StatusInProgress, false},
		{StatusReviewed, StatusCompleted, true},
		{StatusReviewed, StatusFailed, true},
		{StatusReviewed, StatusSubmitted, false},
		{StatusCompleted, StatusAssigned, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusAssigned, false},
		{StatusFailed, StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestAssignmentStatusIsTerminal(t *testing.T) {
	for _, status := range []AssignmentStatus{StatusCompleted, StatusFailed} {
		if !status.IsTerminal() {
			t.Errorf("expected %q to be terminal", status)
		}
	}
	for _, status := range []AssignmentStatus{StatusAssigned, StatusInProgress, StatusSubmitted, StatusReviewed} {
		if status.IsTerminal() {
			t.Errorf("expected %q to be non-terminal", status)
		}
	}
}

func TestCandidateAssignmentIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		deadline *time.Time
		status   AssignmentStatus
		want     bool
	}{
		{"no deadline", nil, StatusInProgress, false},
		{"future deadline", &future, StatusInProgress, false},
		{"past deadline active", &past, StatusInProgress, true},
		{"past deadline assigned", &past, StatusAssigned, true},
		{"past deadline completed", &past, StatusCompleted, false},
		{"past deadline failed", &past, StatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ca := CandidateAssignment{Deadline: tt.deadline, Status: tt.status}
			if got := ca.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidateAssignmentDaysRemaining(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline *time.Time
		want     int
	}{
		{"no deadline", nil, 0},
		{"five days ahead", ptrTime(now.Add(5 * 24 * time.Hour)), 5},
		{"half a day ahead", ptrTime(now.Add(12 * time.Hour)), 0},
		{"already passed", ptrTime(now.Add(-48 * time.Hour)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ca := CandidateAssignment{Deadline: tt.deadline}
			if got := ca.DaysRemaining(now); got != tt.want {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
