package enums

// DesignRequestStatus tracks the review lifecycle of a custom design request.
type DesignRequestStatus string

const (
	DesignRequestStatusPending   DesignRequestStatus = "pending"
	DesignRequestStatusReviewed  DesignRequestStatus = "reviewed"
	DesignRequestStatusQuoted    DesignRequestStatus = "quoted"
	DesignRequestStatusAccepted  DesignRequestStatus = "accepted"
	DesignRequestStatusRejected  DesignRequestStatus = "rejected"
	DesignRequestStatusCompleted DesignRequestStatus = "completed"
)

var designRequestTransitions = map[DesignRequestStatus][]DesignRequestStatus{
	DesignRequestStatusPending:  {DesignRequestStatusReviewed},
	DesignRequestStatusReviewed: {DesignRequestStatusQuoted},
	DesignRequestStatusQuoted:   {DesignRequestStatusAccepted, DesignRequestStatusRejected},
	DesignRequestStatusAccepted: {DesignRequestStatusCompleted},
}

// IsValid reports whether the value is a known design request status.
func (s DesignRequestStatus) IsValid() bool {
	switch s {
	case DesignRequestStatusPending, DesignRequestStatusReviewed, DesignRequestStatusQuoted,
		DesignRequestStatusAccepted, DesignRequestStatusRejected, DesignRequestStatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s DesignRequestStatus) IsTerminal() bool {
	return s == DesignRequestStatusRejected || s == DesignRequestStatusCompleted
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s DesignRequestStatus) CanTransitionTo(target DesignRequestStatus) bool {
	for _, allowed := range designRequestTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
