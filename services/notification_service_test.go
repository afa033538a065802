package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-marketplace-api/models"
)

func TestNotifyDedupWindowSuppressesDuplicates(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, models.RoleTenant)

	current := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	env.notify.now = func() time.Time { return current }

	require.NoError(t, env.notify.Notify(user.UserID, models.NotifyPaymentReceived,
		"Payment received", "A payment has been received.", nil))
	require.NoError(t, env.notify.Notify(user.UserID, models.NotifyPaymentReceived,
		"Payment received", "A payment has been received.", nil))

	assert.Equal(t, int64(1), notificationCount(t, env, user.UserID, models.NotifyPaymentReceived))
	assert.Len(t, *env.sent, 1)

	// Past the window the same type goes through again.
	current = current.Add(61 * time.Minute)
	require.NoError(t, env.notify.Notify(user.UserID, models.NotifyPaymentReceived,
		"Payment received", "A payment has been received.", nil))
	assert.Equal(t, int64(2), notificationCount(t, env, user.UserID, models.NotifyPaymentReceived))
}

func TestNotifyDedupWindowIsPerUserAndType(t *testing.T) {
	env := newTestEnv(t)
	first := env.createUser(t, models.RoleTenant)
	second := env.createUser(t, models.RoleTenant)

	require.NoError(t, env.notify.Notify(first.UserID, models.NotifyPaymentVerified,
		"Payment verified", "Your payment has been verified.", nil))
	require.NoError(t, env.notify.Notify(second.UserID, models.NotifyPaymentVerified,
		"Payment verified", "Your payment has been verified.", nil))
	require.NoError(t, env.notify.Notify(first.UserID, models.NotifyDepositRequired,
		"Deposit required", "A security deposit is due.", nil))

	assert.Equal(t, int64(1), notificationCount(t, env, first.UserID, models.NotifyPaymentVerified))
	assert.Equal(t, int64(1), notificationCount(t, env, second.UserID, models.NotifyPaymentVerified))
	assert.Equal(t, int64(1), notificationCount(t, env, first.UserID, models.NotifyDepositRequired))
}

func TestNotifyNonWindowedTypeAlwaysInserts(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, models.RoleTenant)

	require.NoError(t, env.notify.Notify(user.UserID, models.NotifyStatusChanged,
		"Status updated", "Your application status changed.", nil))
	require.NoError(t, env.notify.Notify(user.UserID, models.NotifyStatusChanged,
		"Status updated", "Your application status changed.", nil))

	assert.Equal(t, int64(2), notificationCount(t, env, user.UserID, models.NotifyStatusChanged))
}

func TestNotifyUnknownRecipientStillRecordsRow(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.notify.Notify(9999, models.NotifyStatusChanged,
		"Status updated", "Your application status changed.", nil))

	assert.Equal(t, int64(1), notificationCount(t, env, 9999, models.NotifyStatusChanged))
	assert.Empty(t, *env.sent)
}

func TestNotifySwallowsMailFailures(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, models.RoleTenant)
	env.notify.mail = func(to []string, subject, html string) error {
		return errors.New("smtp unreachable")
	}

	err := env.notify.Notify(user.UserID, models.NotifyStatusChanged,
		"Status updated", "Your application status changed.", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), notificationCount(t, env, user.UserID, models.NotifyStatusChanged))
}

func TestNotificationEmailEscapesContent(t *testing.T) {
	html := buildNotificationEmailHTML("Subject", "Jane <Doe>", "line one\nline <two>")

	assert.Contains(t, html, "Jane &lt;Doe&gt;")
	assert.Contains(t, html, "line one<br />line &lt;two&gt;")
	assert.NotContains(t, html, "<Doe>")
}
