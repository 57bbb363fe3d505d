package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-registry-api/internal/models"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
)

const activityFeedKey = "activity:feed"

// DefaultActivityFeedSize caps the persistent activity feed.
const DefaultActivityFeedSize = 20

// ActivityHandler builds the human-readable description for one event.
type ActivityHandler func(payload models.ActivityPayload) string

// ActivityService is the in-process activity bus: domain-change events
// fan out to exactly one registered handler per event name, producing a
// durable, capped feed entry (newest first).
type ActivityService struct {
	store    StateStore
	logger   *zap.Logger
	feedSize int
	now      func() time.Time

	mu          sync.Mutex
	handlers    map[models.ActivityEvent]ActivityHandler
	initialized bool
}

// NewActivityService constructs the activity bus.
func NewActivityService(store StateStore, feedSize int, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if feedSize <= 0 {
		feedSize = DefaultActivityFeedSize
	}
	return &ActivityService{
		store:    store,
		logger:   logger,
		feedSize: feedSize,
		now:      time.Now,
		handlers: make(map[models.ActivityEvent]ActivityHandler),
	}
}

// Register binds a handler to an event name. A second registration for
// the same event is rejected.
func (s *ActivityService) Register(event models.ActivityEvent, handler ActivityHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handlers[event]; ok {
		return fmt.Errorf("handler already registered for %s", event)
	}
	s.handlers[event] = handler
	return nil
}

// RegisterDefaults installs the standard description builders. Safe to
// call from multiple wiring paths; only the first call registers.
func (s *ActivityService) RegisterDefaults() {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	defaults := map[models.ActivityEvent]ActivityHandler{
		models.EventStudentCreated:    func(p models.ActivityPayload) string { return "New student enrolled: " + p.Name },
		models.EventStudentUpdated:    func(p models.ActivityPayload) string { return "Student record updated: " + p.Name },
		models.EventStudentDeleted:    func(p models.ActivityPayload) string { return "Student record removed: " + p.Name },
		models.EventFacultyCreated:    func(p models.ActivityPayload) string { return "New faculty added: " + p.Name },
		models.EventFacultyUpdated:    func(p models.ActivityPayload) string { return "Faculty record updated: " + p.Name },
		models.EventFacultyDeleted:    func(p models.ActivityPayload) string { return "Faculty record removed: " + p.Name },
		models.EventCourseCreated:     func(p models.ActivityPayload) string { return "New course created: " + p.Name },
		models.EventCourseUpdated:     func(p models.ActivityPayload) string { return "Course updated: " + p.Name },
		models.EventCourseDeleted:     func(p models.ActivityPayload) string { return "Course removed: " + p.Name },
		models.EventDepartmentCreated: func(p models.ActivityPayload) string { return "New department created: " + p.Name },
		models.EventDepartmentUpdated: func(p models.ActivityPayload) string { return "Department updated: " + p.Name },
		models.EventDepartmentDeleted: func(p models.ActivityPayload) string { return "Department removed: " + p.Name },
		models.EventYearArchived:      func(p models.ActivityPayload) string { return "Year folder archived: " + p.Name },
		models.EventYearRestored:      func(p models.ActivityPayload) string { return "Year folder restored: " + p.Name },
	}
	for event, handler := range defaults {
		if err := s.Register(event, handler); err != nil {
			s.logger.Warn("duplicate activity handler", zap.String("event", string(event)))
		}
	}
}

// Publish dispatches the event to its handler and prepends the resulting
// entry to the feed, evicting the oldest entry past capacity.
func (s *ActivityService) Publish(ctx context.Context, event models.ActivityEvent, payload models.ActivityPayload) error {
	s.mu.Lock()
	handler, ok := s.handlers[event]
	s.mu.Unlock()
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("no handler registered for event %s", event))
	}

	entry := models.ActivityEntry{
		ID:          uuid.NewString(),
		Type:        event,
		Description: handler(payload),
		Entity:      payload.Entity,
		Timestamp:   s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	feed, err := s.loadFeed(ctx)
	if err != nil {
		return err
	}

	feed = append([]models.ActivityEntry{entry}, feed...)
	if len(feed) > s.feedSize {
		feed = feed[:s.feedSize]
	}

	if err := s.store.Set(ctx, activityFeedKey, feed); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist activity feed")
	}
	return nil
}

// Feed returns the persisted activity entries, newest first.
func (s *ActivityService) Feed(ctx context.Context) ([]models.ActivityEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFeed(ctx)
}

func (s *ActivityService) loadFeed(ctx context.Context) ([]models.ActivityEntry, error) {
	var feed []models.ActivityEntry
	if err := s.store.Get(ctx, activityFeedKey, &feed); err != nil {
		if errors.Is(err, appErrors.ErrStateMiss) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity feed")
	}
	return feed, nil
}
