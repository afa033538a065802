package services

import (
	"rental-marketplace-api/models"
)

// statusTransitions is the canonical application status graph. Terminal
// statuses map to empty sets and reject every transition.
var statusTransitions = map[string][]string{
	models.StatusDraft:               {models.StatusSubmitted, models.StatusPendingPayment, models.StatusWithdrawn},
	models.StatusPendingPayment:      {models.StatusPaymentVerified, models.StatusWithdrawn},
	models.StatusPaymentVerified:     {models.StatusSubmitted, models.StatusWithdrawn},
	models.StatusSubmitted:           {models.StatusUnderReview, models.StatusWithdrawn},
	models.StatusUnderReview:         {models.StatusInfoRequested, models.StatusConditionalApproval, models.StatusApproved, models.StatusRejected, models.StatusWithdrawn},
	models.StatusInfoRequested:       {models.StatusUnderReview, models.StatusConditionalApproval, models.StatusApproved, models.StatusRejected, models.StatusWithdrawn},
	models.StatusConditionalApproval: {models.StatusApproved, models.StatusRejected, models.StatusWithdrawn},
	models.StatusApproved:            {},
	models.StatusRejected:            {},
	models.StatusWithdrawn:           {},
}

// leaseTransitions is the lease workflow graph tracked on
// application.lease_status.
var leaseTransitions = map[string][]string{
	models.LeaseStatusPreparation: {models.LeaseStatusSent, models.LeaseStatusDeclined},
	models.LeaseStatusSent:        {models.LeaseStatusAccepted, models.LeaseStatusDeclined, models.LeaseStatusSent},
	models.LeaseStatusAccepted:    {models.LeaseStatusMoveInReady},
	models.LeaseStatusDeclined:    {models.LeaseStatusPreparation},
	models.LeaseStatusMoveInReady: {models.LeaseStatusCompleted},
	models.LeaseStatusCompleted:   {},
}

// IsValidTransition reports whether moving from current to next is legal.
// Unknown current statuses have no legal moves.
func IsValidTransition(current, next string) bool {
	for _, allowed := range statusTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the legal next states for a status.
func AllowedTransitions(current string) []string {
	allowed := statusTransitions[current]
	out := make([]string, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminalStatus reports whether a status has no outgoing transitions.
func IsTerminalStatus(status string) bool {
	allowed, known := statusTransitions[status]
	return known && len(allowed) == 0
}

// IsValidLeaseTransition reports whether a lease_status move is legal.
func IsValidLeaseTransition(current, next string) bool {
	for _, allowed := range leaseTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedLeaseTransitions returns a copy of the legal next lease states.
func AllowedLeaseTransitions(current string) []string {
	allowed := leaseTransitions[current]
	out := make([]string, len(allowed))
	copy(out, allowed)
	return out
}
