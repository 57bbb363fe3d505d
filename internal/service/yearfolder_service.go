package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/univ-registry-api/internal/classify"
	"github.com/noah-isme/univ-registry-api/internal/models"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
)

const (
	customYearsKey   = "years:custom"
	archivedYearsKey = "years:archived"
)

// Confirmation phrases gating archive and restore. The match is exact,
// case included.
const (
	ConfirmArchive = "Archive"
	ConfirmRestore = "Restore"
)

var customYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// YearFolderService maintains the visible set of academic-year folders:
// baseline plus custom years, minus archived labels. State survives
// restarts through the StateStore.
type YearFolderService struct {
	store    StateStore
	activity *ActivityService
	logger   *zap.Logger
}

// NewYearFolderService constructs the year-folder service.
func NewYearFolderService(store StateStore, activity *ActivityService, logger *zap.Logger) *YearFolderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YearFolderService{store: store, activity: activity, logger: logger}
}

// Folders returns the visible, archived and complete folder sets.
func (s *YearFolderService) Folders(ctx context.Context) (*models.YearFolders, error) {
	custom, err := s.loadLabels(ctx, customYearsKey)
	if err != nil {
		return nil, err
	}
	archived, err := s.loadLabels(ctx, archivedYearsKey)
	if err != nil {
		return nil, err
	}

	all := append(append([]string{}, classify.BaselineYears...), custom...)

	archivedSet := make(map[string]struct{}, len(archived))
	for _, label := range archived {
		archivedSet[strings.ToLower(label)] = struct{}{}
	}

	visible := make([]string, 0, len(all))
	for _, label := range all {
		if _, hidden := archivedSet[strings.ToLower(label)]; !hidden {
			visible = append(visible, label)
		}
	}

	return &models.YearFolders{Visible: visible, Archived: archived, All: all}, nil
}

// KnownYears returns the labels the classification engine should accept.
// Archived labels stay known unless includeArchived is false.
func (s *YearFolderService) KnownYears(ctx context.Context, includeArchived bool) ([]string, error) {
	folders, err := s.Folders(ctx)
	if err != nil {
		return nil, err
	}
	if includeArchived {
		return folders.All, nil
	}
	return folders.Visible, nil
}

// AddCustomYear validates a bare "YYYY-YYYY" range and appends its
// canonical label to the custom-year set. Duplicates against baseline
// and custom labels are rejected case-insensitively.
func (s *YearFolderService) AddCustomYear(ctx context.Context, input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if !customYearPattern.MatchString(trimmed) {
		return "", appErrors.Clone(appErrors.ErrValidation, "year must be in the form YYYY-YYYY")
	}
	label := "SY " + trimmed

	custom, err := s.loadLabels(ctx, customYearsKey)
	if err != nil {
		return "", err
	}
	for _, existing := range append(append([]string{}, classify.BaselineYears...), custom...) {
		if strings.EqualFold(existing, label) {
			return "", appErrors.Clone(appErrors.ErrConflict, "year folder already exists")
		}
	}

	custom = append(custom, label)
	if err := s.saveLabels(ctx, customYearsKey, custom); err != nil {
		return "", err
	}
	return label, nil
}

// Archive hides a year folder from default views. Idempotent: archiving
// an already-archived label is a no-op.
func (s *YearFolderService) Archive(ctx context.Context, label, confirm string) error {
	if confirm != ConfirmArchive {
		return appErrors.Clone(appErrors.ErrValidation, `confirmation phrase must be "Archive"`)
	}

	archived, err := s.loadLabels(ctx, archivedYearsKey)
	if err != nil {
		return err
	}
	for _, existing := range archived {
		if strings.EqualFold(existing, label) {
			return nil
		}
	}

	archived = append(archived, label)
	if err := s.saveLabels(ctx, archivedYearsKey, archived); err != nil {
		return err
	}

	s.publish(ctx, models.EventYearArchived, label)
	return nil
}

// Restore returns an archived folder to the visible set. Idempotent if
// the label is not archived. No underlying records change.
func (s *YearFolderService) Restore(ctx context.Context, label, confirm string) error {
	if confirm != ConfirmRestore {
		return appErrors.Clone(appErrors.ErrValidation, `confirmation phrase must be "Restore"`)
	}

	archived, err := s.loadLabels(ctx, archivedYearsKey)
	if err != nil {
		return err
	}

	kept := archived[:0]
	removed := false
	for _, existing := range archived {
		if strings.EqualFold(existing, label) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return nil
	}

	if err := s.saveLabels(ctx, archivedYearsKey, kept); err != nil {
		return err
	}

	s.publish(ctx, models.EventYearRestored, label)
	return nil
}

// DeleteYear removes a custom year folder entirely. Baseline years are
// immutable for this operation.
func (s *YearFolderService) DeleteYear(ctx context.Context, label string) error {
	for _, baseline := range classify.BaselineYears {
		if strings.EqualFold(baseline, label) {
			return appErrors.Clone(appErrors.ErrValidation, "baseline year folders cannot be deleted")
		}
	}

	custom, err := s.loadLabels(ctx, customYearsKey)
	if err != nil {
		return err
	}

	kept := custom[:0]
	removed := false
	for _, existing := range custom {
		if strings.EqualFold(existing, label) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "year folder not found")
	}

	if err := s.saveLabels(ctx, customYearsKey, kept); err != nil {
		return err
	}

	// Drop the label from the archived set too so it cannot linger there.
	archived, err := s.loadLabels(ctx, archivedYearsKey)
	if err != nil {
		return err
	}
	keptArchived := archived[:0]
	for _, existing := range archived {
		if !strings.EqualFold(existing, label) {
			keptArchived = append(keptArchived, existing)
		}
	}
	if len(keptArchived) != len(archived) {
		if err := s.saveLabels(ctx, archivedYearsKey, keptArchived); err != nil {
			return err
		}
	}
	return nil
}

func (s *YearFolderService) publish(ctx context.Context, event models.ActivityEvent, label string) {
	if s.activity == nil {
		return
	}
	payload := models.ActivityPayload{Entity: "year", Name: label}
	if err := s.activity.Publish(ctx, event, payload); err != nil {
		s.logger.Warn("failed to publish year event", zap.String("event", string(event)), zap.Error(err))
	}
}

func (s *YearFolderService) loadLabels(ctx context.Context, key string) ([]string, error) {
	var labels []string
	if err := s.store.Get(ctx, key, &labels); err != nil {
		if errors.Is(err, appErrors.ErrStateMiss) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load year folders")
	}
	return labels, nil
}

func (s *YearFolderService) saveLabels(ctx context.Context, key string, labels []string) error {
	if err := s.store.Set(ctx, key, labels); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist year folders")
	}
	return nil
}
