package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-registry-api/internal/classify"
)

func newTestYearFolderService() (*YearFolderService, *memStateStore) {
	store := newMemStateStore()
	return NewYearFolderService(store, nil, zap.NewNop()), store
}

func TestYearFoldersBaselineOnly(t *testing.T) {
	svc, _ := newTestYearFolderService()

	folders, err := svc.Folders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, classify.BaselineYears, folders.Visible)
	assert.Empty(t, folders.Archived)
	assert.Equal(t, classify.BaselineYears, folders.All)
}

func TestAddCustomYear(t *testing.T) {
	svc, _ := newTestYearFolderService()

	label, err := svc.AddCustomYear(context.Background(), " 2025-2026 ")
	require.NoError(t, err)
	assert.Equal(t, "SY 2025-2026", label)

	folders, err := svc.Folders(context.Background())
	require.NoError(t, err)
	assert.Contains(t, folders.Visible, "SY 2025-2026")
}

func TestAddCustomYearRejectsMalformed(t *testing.T) {
	svc, _ := newTestYearFolderService()

	for _, input := range []string{"", "2025", "SY 2025-2026", "2025/2026", "abcd-efgh"} {
		_, err := svc.AddCustomYear(context.Background(), input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestAddCustomYearRejectsDuplicates(t *testing.T) {
	svc, _ := newTestYearFolderService()

	// Baseline collision, case-insensitive.
	_, err := svc.AddCustomYear(context.Background(), "2024-2025")
	require.Error(t, err)

	_, err = svc.AddCustomYear(context.Background(), "2025-2026")
	require.NoError(t, err)
	_, err = svc.AddCustomYear(context.Background(), "2025-2026")
	require.Error(t, err)
}

func TestArchiveRequiresExactPhrase(t *testing.T) {
	svc, _ := newTestYearFolderService()

	require.Error(t, svc.Archive(context.Background(), "SY 2022-2023", "archive"))
	require.Error(t, svc.Archive(context.Background(), "SY 2022-2023", ""))
	require.NoError(t, svc.Archive(context.Background(), "SY 2022-2023", ConfirmArchive))

	folders, err := svc.Folders(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, folders.Visible, "SY 2022-2023")
	assert.Contains(t, folders.Archived, "SY 2022-2023")
	assert.Contains(t, folders.All, "SY 2022-2023")
}

func TestArchiveIdempotent(t *testing.T) {
	svc, _ := newTestYearFolderService()

	require.NoError(t, svc.Archive(context.Background(), "SY 2021-2022", ConfirmArchive))
	require.NoError(t, svc.Archive(context.Background(), "SY 2021-2022", ConfirmArchive))

	folders, err := svc.Folders(context.Background())
	require.NoError(t, err)
	assert.Len(t, folders.Archived, 1)
}

func TestRestoreReturnsFolderToVisible(t *testing.T) {
	svc, _ := newTestYearFolderService()

	require.NoError(t, svc.Archive(context.Background(), "SY 2023-2024", ConfirmArchive))
	require.Error(t, svc.Restore(context.Background(), "SY 2023-2024", "restore"))
	require.NoError(t, svc.Restore(context.Background(), "SY 2023-2024", ConfirmRestore))

	folders, err := svc.Folders(context.Background())
	require.NoError(t, err)
	assert.Contains(t, folders.Visible, "SY 2023-2024")
	assert.Empty(t, folders.Archived)

	// Restoring a label that is not archived is a no-op.
	require.NoError(t, svc.Restore(context.Background(), "SY 2023-2024", ConfirmRestore))
}

func TestDeleteYearBaselineImmutable(t *testing.T) {
	svc, _ := newTestYearFolderService()

	err := svc.DeleteYear(context.Background(), "SY 2020-2021")
	require.Error(t, err)
}

func TestDeleteYearRemovesCustomEverywhere(t *testing.T) {
	svc, _ := newTestYearFolderService()

	_, err := svc.AddCustomYear(context.Background(), "2026-2027")
	require.NoError(t, err)
	require.NoError(t, svc.Archive(context.Background(), "SY 2026-2027", ConfirmArchive))

	require.NoError(t, svc.DeleteYear(context.Background(), "sy 2026-2027"))

	folders, err := svc.Folders(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, folders.All, "SY 2026-2027")
	assert.Empty(t, folders.Archived)
}

func TestDeleteYearUnknownLabel(t *testing.T) {
	svc, _ := newTestYearFolderService()

	err := svc.DeleteYear(context.Background(), "SY 2030-2031")
	require.Error(t, err)
}

func TestKnownYearsHonorsArchivedFlag(t *testing.T) {
	svc, _ := newTestYearFolderService()

	require.NoError(t, svc.Archive(context.Background(), "SY 2020-2021", ConfirmArchive))

	visible, err := svc.KnownYears(context.Background(), false)
	require.NoError(t, err)
	assert.NotContains(t, visible, "SY 2020-2021")

	all, err := svc.KnownYears(context.Background(), true)
	require.NoError(t, err)
	assert.Contains(t, all, "SY 2020-2021")
}
