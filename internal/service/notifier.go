package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/univ-registry-api/internal/models"
)

// DefaultToastDuration is the auto-dismiss window for notifications.
const DefaultToastDuration = 3 * time.Second

// Notification is one transient toast. While hovered the dismissal
// clock is paused; on leave it resumes with the remaining duration
// computed from elapsed time, not reset to the full duration.
type Notification struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Kind      models.NotificationKind `json:"kind"`
	Duration  time.Duration           `json:"duration"`
	CreatedAt time.Time               `json:"created_at"`

	deadline  time.Time
	remaining time.Duration
	paused    bool
}

// Notifier manages active toast notifications.
type Notifier struct {
	mu              sync.Mutex
	active          map[string]*Notification
	defaultDuration time.Duration
	now             func() time.Time
}

// NewNotifier constructs a notifier with the given default duration.
func NewNotifier(defaultDuration time.Duration) *Notifier {
	if defaultDuration <= 0 {
		defaultDuration = DefaultToastDuration
	}
	return &Notifier{
		active:          make(map[string]*Notification),
		defaultDuration: defaultDuration,
		now:             time.Now,
	}
}

// Notify raises a toast that auto-dismisses after duration (the default
// when duration <= 0).
func (n *Notifier) Notify(message string, kind models.NotificationKind, duration time.Duration) *Notification {
	if duration <= 0 {
		duration = n.defaultDuration
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	notif := &Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		Duration:  duration,
		CreatedAt: now,
		deadline:  now.Add(duration),
	}
	n.active[notif.ID] = notif
	return notif
}

// Hover pauses the dismissal timer, recording the remaining duration.
func (n *Notifier) Hover(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	notif, ok := n.active[id]
	if !ok || notif.paused {
		return
	}
	notif.remaining = notif.deadline.Sub(n.now())
	if notif.remaining < 0 {
		notif.remaining = 0
	}
	notif.paused = true
}

// Leave resumes the dismissal timer with the duration left at hover time.
func (n *Notifier) Leave(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	notif, ok := n.active[id]
	if !ok || !notif.paused {
		return
	}
	notif.deadline = n.now().Add(notif.remaining)
	notif.paused = false
}

// Dismiss removes a notification immediately.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.active, id)
}

// Active prunes expired notifications and returns those still showing.
// Paused notifications never expire.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	result := make([]Notification, 0, len(n.active))
	for id, notif := range n.active {
		if !notif.paused && !now.Before(notif.deadline) {
			delete(n.active, id)
			continue
		}
		result = append(result, *notif)
	}
	return result
}
