package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-registry-api/internal/models"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestNotifier() (*Notifier, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	n := NewNotifier(DefaultToastDuration)
	n.now = clock.Now
	return n, clock
}

func TestNotifierAutoDismiss(t *testing.T) {
	n, clock := newTestNotifier()

	n.Notify("Student saved", models.NotifyAdd, 0)
	assert.Len(t, n.Active(), 1)

	clock.Advance(2900 * time.Millisecond)
	assert.Len(t, n.Active(), 1)

	clock.Advance(200 * time.Millisecond)
	assert.Empty(t, n.Active())
}

func TestNotifierHoverPausesCountdown(t *testing.T) {
	n, clock := newTestNotifier()

	notif := n.Notify("Faculty removed", models.NotifyDelete, 3*time.Second)

	clock.Advance(1 * time.Second)
	n.Hover(notif.ID)

	// Paused notifications never expire, no matter how long the hover.
	clock.Advance(10 * time.Second)
	assert.Len(t, n.Active(), 1)
}

func TestNotifierLeaveResumesWithRemaining(t *testing.T) {
	n, clock := newTestNotifier()

	notif := n.Notify("Course updated", models.NotifyEdit, 3*time.Second)

	clock.Advance(1 * time.Second)
	n.Hover(notif.ID)
	clock.Advance(1 * time.Second)
	n.Leave(notif.ID)

	// Two seconds were left at hover time, so dismissal lands two
	// seconds after leave, not three.
	clock.Advance(1900 * time.Millisecond)
	assert.Len(t, n.Active(), 1)

	clock.Advance(200 * time.Millisecond)
	assert.Empty(t, n.Active())
}

func TestNotifierDismiss(t *testing.T) {
	n, _ := newTestNotifier()

	notif := n.Notify("Heads up", models.NotifyInfo, 0)
	n.Dismiss(notif.ID)
	assert.Empty(t, n.Active())
}

func TestNotifierHoverUnknownIDIsNoop(t *testing.T) {
	n, clock := newTestNotifier()

	n.Hover("missing")
	n.Leave("missing")

	notif := n.Notify("Still here", models.NotifyInfo, 3*time.Second)
	require.NotEmpty(t, notif.ID)
	clock.Advance(time.Second)
	assert.Len(t, n.Active(), 1)
}

func TestNotifierDefaultDuration(t *testing.T) {
	n := NewNotifier(0)
	notif := n.Notify("msg", models.NotifyInfo, 0)
	assert.Equal(t, DefaultToastDuration, notif.Duration)
}
