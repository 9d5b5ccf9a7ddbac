package valueobjects

import "testing"

func TestSubscriptionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from SubscriptionStatus
		to   SubscriptionStatus
		want bool
	}{
		{"pending to active", StatusPending, StatusActive, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to suspended", StatusPending, StatusSuspended, false},
		{"pending to expired", StatusPending, StatusExpired, false},
		{"active to suspended", StatusActive, StatusSuspended, true},
		{"active to cancelled", StatusActive, StatusCancelled, true},
		{"active to expired", StatusActive, StatusExpired, true},
		{"active to pending", StatusActive, StatusPending, false},
		{"suspended to active", StatusSuspended, StatusActive, true},
		{"suspended to cancelled", StatusSuspended, StatusCancelled, true},
		{"suspended to expired", StatusSuspended, StatusExpired, true},
		{"cancelled is terminal", StatusCancelled, StatusActive, false},
		{"expired is terminal", StatusExpired, StatusActive, false},
		{"unknown status", SubscriptionStatus("bogus"), StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSubscriptionStatus_IsTerminal(t *testing.T) {
	terminal := []SubscriptionStatus{StatusCancelled, StatusExpired}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	open := []SubscriptionStatus{StatusPending, StatusActive, StatusSuspended}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
