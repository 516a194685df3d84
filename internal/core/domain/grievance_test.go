package domain

import (
	"testing"
	"time"
)

func TestGrievanceStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    GrievanceStatus
		to      GrievanceStatus
		allowed bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusResolved, false},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusRejected, false},
		{StatusInProgress, StatusPending, false},
		{StatusInProgress, StatusInProgress, false},
		{StatusResolved, StatusPending, false},
		{StatusResolved, StatusInProgress, false},
		{StatusResolved, StatusRejected, false},
		{StatusResolved, StatusResolved, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusInProgress, false},
		{StatusRejected, StatusResolved, false},
		{StatusRejected, StatusRejected, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestGrievanceStatus_IsValid(t *testing.T) {
	for _, s := range []GrievanceStatus{StatusPending, StatusInProgress, StatusResolved, StatusRejected} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []GrievanceStatus{"", "pending", "Done", "IN_PROGRESS"} {
		if s.IsValid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestGrievanceStatus_WireCasing(t *testing.T) {
	// The literal strings are part of the store contract.
	if string(StatusPending) != "Pending" ||
		string(StatusInProgress) != "InProgress" ||
		string(StatusResolved) != "Resolved" ||
		string(StatusRejected) != "Rejected" {
		t.Fatal("status literals must keep their exact casing")
	}
}

func TestGrievanceStatus_PresentationCoversAllStatuses(t *testing.T) {
	for _, s := range []GrievanceStatus{StatusPending, StatusInProgress, StatusResolved, StatusRejected} {
		p := s.Presentation()
		if p.Label == "" || p.Color == "" {
			t.Errorf("missing presentation for %s", s)
		}
	}
}

func TestPartition_DisjointAndExhaustive(t *testing.T) {
	now := time.Now().UTC()
	set := []*Grievance{
		{ID: "a", Status: StatusPending, SubmittedAt: now},
		{ID: "b", Status: StatusInProgress, SubmittedAt: now},
		{ID: "c", Status: StatusResolved, SubmittedAt: now},
		{ID: "d", Status: StatusRejected, SubmittedAt: now},
	}

	active, past := Partition(set)

	if len(active)+len(past) != len(set) {
		t.Fatalf("partition not exhaustive: %d + %d != %d", len(active), len(past), len(set))
	}

	seen := make(map[string]bool)
	for _, g := range append(append([]*Grievance{}, active...), past...) {
		if seen[g.ID] {
			t.Fatalf("grievance %s appears in both partitions", g.ID)
		}
		seen[g.ID] = true
	}

	for _, g := range active {
		if !g.Status.IsActive() {
			t.Errorf("grievance %s with status %s must not be active", g.ID, g.Status)
		}
	}
	for _, g := range past {
		if g.Status.IsActive() {
			t.Errorf("grievance %s with status %s must not be past", g.ID, g.Status)
		}
	}
}

func TestPartition_Empty(t *testing.T) {
	active, past := Partition(nil)
	if len(active) != 0 || len(past) != 0 {
		t.Fatal("partition of empty set must be empty")
	}
}
