package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rental-marketplace-api/models"
)

func TestStatusTransitionTableIsClosed(t *testing.T) {
	for from, targets := range statusTransitions {
		for _, to := range targets {
			_, known := statusTransitions[to]
			assert.True(t, known, "transition %s -> %s points at an unknown status", from, to)
		}
	}
}

func TestLeaseTransitionTableIsClosed(t *testing.T) {
	for from, targets := range leaseTransitions {
		for _, to := range targets {
			_, known := leaseTransitions[to]
			assert.True(t, known, "lease transition %s -> %s points at an unknown status", from, to)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, status := range []string{models.StatusApproved, models.StatusRejected, models.StatusWithdrawn} {
		assert.True(t, IsTerminalStatus(status), status)
		assert.Empty(t, AllowedTransitions(status), status)
	}
	assert.False(t, IsTerminalStatus(models.StatusDraft))
	assert.False(t, IsTerminalStatus("no_such_status"))
}

func TestWithdrawReachableFromEveryNonTerminalStatus(t *testing.T) {
	for from, targets := range statusTransitions {
		if len(targets) == 0 {
			continue
		}
		assert.True(t, IsValidTransition(from, models.StatusWithdrawn), from)
	}
}

func TestUnknownStatusHasNoTransitions(t *testing.T) {
	assert.False(t, IsValidTransition("no_such_status", models.StatusSubmitted))
	assert.Empty(t, AllowedTransitions("no_such_status"))
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	first := AllowedTransitions(models.StatusDraft)
	first[0] = "mutated"
	second := AllowedTransitions(models.StatusDraft)
	assert.NotEqual(t, "mutated", second[0])
}

func TestLeaseResendIsLegal(t *testing.T) {
	assert.True(t, IsValidLeaseTransition(models.LeaseStatusSent, models.LeaseStatusSent))
}

func TestLeaseDeclineLoopsBackToPreparation(t *testing.T) {
	assert.True(t, IsValidLeaseTransition(models.LeaseStatusSent, models.LeaseStatusDeclined))
	assert.True(t, IsValidLeaseTransition(models.LeaseStatusDeclined, models.LeaseStatusPreparation))
	assert.False(t, IsValidLeaseTransition(models.LeaseStatusDeclined, models.LeaseStatusAccepted))
}

func TestLeaseCompletedIsTerminal(t *testing.T) {
	assert.Empty(t, AllowedLeaseTransitions(models.LeaseStatusCompleted))
	assert.False(t, IsValidLeaseTransition(models.LeaseStatusCompleted, models.LeaseStatusPreparation))
}

func TestAcceptedLeaseCannotBeDeclined(t *testing.T) {
	assert.False(t, IsValidLeaseTransition(models.LeaseStatusAccepted, models.LeaseStatusDeclined))
	assert.Equal(t, []string{models.LeaseStatusMoveInReady}, AllowedLeaseTransitions(models.LeaseStatusAccepted))
}
