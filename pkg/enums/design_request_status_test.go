package enums

import "testing"

func TestDesignRequestStatusTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to DesignRequestStatus
		allowed  bool
	}{
		{DesignRequestStatusPending, DesignRequestStatusReviewed, true},
		{DesignRequestStatusReviewed, DesignRequestStatusQuoted, true},
		{DesignRequestStatusQuoted, DesignRequestStatusAccepted, true},
		{DesignRequestStatusQuoted, DesignRequestStatusRejected, true},
		{DesignRequestStatusAccepted, DesignRequestStatusCompleted, true},

		// a quote is required before accepting or rejecting
		{DesignRequestStatusPending, DesignRequestStatusQuoted, false},
		{DesignRequestStatusPending, DesignRequestStatusAccepted, false},
		{DesignRequestStatusReviewed, DesignRequestStatusAccepted, false},
		{DesignRequestStatusReviewed, DesignRequestStatusRejected, false},

		// terminal states never move
		{DesignRequestStatusRejected, DesignRequestStatusReviewed, false},
		{DesignRequestStatusCompleted, DesignRequestStatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}
