package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"templatehub-backend-go/internal/db"
)

func newSettingsFixture(t *testing.T) (SettingsService, *memSettingsRepo) {
	t.Helper()
	users := newMemUserRepo()
	templates := newMemTemplateRepo(users)
	activity := NewActivityService(newMemActivityRepo(), templates, users, zap.NewNop())
	repo := newMemSettingsRepo()
	return NewSettingsService(repo, activity), repo
}

func TestSettingsGetSeedsDefaults(t *testing.T) {
	svc, repo := newSettingsFixture(t)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, db.ErrNotFound)

	settings, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, settings.AutoApproval)
	assert.True(t, settings.EmailNotifications)
	assert.False(t, settings.MaintenanceMode)
	assert.Equal(t, "50MB", settings.MaxTemplateSize)
	assert.Equal(t, "15%", settings.CommissionRate)

	// The seeded document is persisted.
	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.MaxTemplateSize, stored.MaxTemplateSize)
}

func TestSettingsUpdatePersists(t *testing.T) {
	svc, repo := newSettingsFixture(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "autoApproval", true)
	require.NoError(t, err)
	assert.True(t, updated.AutoApproval)

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, stored.AutoApproval)
}

func TestSettingsUpdateCoercesBoolStrings(t *testing.T) {
	svc, _ := newSettingsFixture(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "maintenanceMode", "true")
	require.NoError(t, err)
	assert.True(t, updated.MaintenanceMode)

	updated, err = svc.Update(ctx, "maintenanceMode", "false")
	require.NoError(t, err)
	assert.False(t, updated.MaintenanceMode)

	_, err = svc.Update(ctx, "maintenanceMode", "yes")
	assert.ErrorIs(t, err, ErrInvalidSettingValue)

	_, err = svc.Update(ctx, "maintenanceMode", 3)
	assert.ErrorIs(t, err, ErrInvalidSettingValue)
}

func TestSettingsUpdateStringKeys(t *testing.T) {
	svc, _ := newSettingsFixture(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "commissionRate", "20%")
	require.NoError(t, err)
	assert.Equal(t, "20%", updated.CommissionRate)

	_, err = svc.Update(ctx, "commissionRate", true)
	assert.ErrorIs(t, err, ErrInvalidSettingValue)
}

func TestSettingsUpdateUnknownKey(t *testing.T) {
	svc, _ := newSettingsFixture(t)

	_, err := svc.Update(context.Background(), "darkMode", true)
	assert.ErrorIs(t, err, ErrUnknownSetting)
}
