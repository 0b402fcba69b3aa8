package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lc3t35/GlobalHaven/internal/geo"
	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/pkg/geocode"
)

func newResource(owner string, loc model.Location) *model.Resource {
	now := time.Now().UTC()
	return &model.Resource{
		ID:        model.NewID(),
		Title:     "Rice",
		Category:  "food",
		Type:      "available",
		UserID:    owner,
		Location:  loc,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStore_CreateUserRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateUser(ctx, &model.User{ID: model.NewID(), Username: "alice", Email: "a@example.com", IsActive: true}))

	err := store.CreateUser(ctx, &model.User{ID: model.NewID(), Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
	err = store.CreateUser(ctx, &model.User{ID: model.NewID(), Username: "bob", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	exists, err := store.UserExists(ctx, "nobody", "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMemoryStore_ResourceSoftDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r := newResource("owner", model.Location{Lat: 1, Lng: 1})
	require.NoError(t, store.CreateResource(ctx, r))

	err := store.DeactivateResource(ctx, r.ID, "someone-else", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)

	deletedAt := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.DeactivateResource(ctx, r.ID, "owner", deletedAt))

	_, err = store.GetResource(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := store.ListResources(ctx, ResourceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// still stored, only flagged
	stored, ok := store.resources.rows[r.ID]
	require.True(t, ok)
	assert.False(t, stored.IsActive)
	assert.True(t, stored.UpdatedAt.Equal(deletedAt))

	assert.ErrorIs(t, store.DeactivateResource(ctx, r.ID, "owner", time.Now()), ErrNotFound)
}

func TestMemoryStore_UpdateResourceRequiresOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r := newResource("owner", model.Location{})
	require.NoError(t, store.CreateResource(ctx, r))

	changed := *r
	changed.Title = "Beans"
	changed.UserID = "intruder"
	assert.ErrorIs(t, store.UpdateResource(ctx, &changed), ErrNotFound)

	stamped := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	changed.UserID = "owner"
	changed.UpdatedAt = stamped
	require.NoError(t, store.UpdateResource(ctx, &changed))

	got, err := store.GetResource(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beans", got.Title)
	assert.Equal(t, r.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.Equal(stamped))
}

func TestMemoryStore_ListResourcesFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := newResource("u", model.Location{Lat: 0, Lng: 0})
	second := newResource("u", model.Location{Lat: 0.01, Lng: 0.01})
	far := newResource("u", model.Location{Lat: 1, Lng: 1})
	tool := newResource("u", model.Location{Lat: 0, Lng: 0})
	tool.Category = "tools"
	for _, r := range []*model.Resource{first, second, far, tool} {
		require.NoError(t, store.CreateResource(ctx, r))
	}

	list, err := store.ListResources(ctx, ResourceFilter{
		Category: "food",
		Near:     &geo.Query{Center: model.Location{}, RadiusKm: 10},
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	limited, err := store.ListResources(ctx, ResourceFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, tool.ID, limited[0].ID)

	byCategory, err := store.CountResourcesByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"food": 3, "tools": 1}, byCategory)
}

func TestMemoryStore_UpsertUsageOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.UpsertUsage(ctx, &model.WaterUsage{
		ID: model.NewID(), UserID: "u1", Date: "2026-10-01", DrinkingLiters: 2, TotalLiters: 2,
	})
	require.NoError(t, err)

	second, err := store.UpsertUsage(ctx, &model.WaterUsage{
		ID: model.NewID(), UserID: "u1", Date: "2026-10-01", DrinkingLiters: 3, CookingLiters: 1, TotalLiters: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	rows, err := store.ListUsage(ctx, "u1", "2026-09-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4.0, rows[0].TotalLiters)
}

func TestMemoryStore_UsageWindowAndAverage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, u := range []model.WaterUsage{
		{UserID: "u1", Date: "2026-10-02", TotalLiters: 10},
		{UserID: "u1", Date: "2026-10-05", TotalLiters: 20},
		{UserID: "u2", Date: "2026-10-05", TotalLiters: 60},
		{UserID: "u1", Date: "2026-08-01", TotalLiters: 1000},
	} {
		u := u
		u.ID = model.NewID()
		_, err := store.UpsertUsage(ctx, &u)
		require.NoError(t, err)
	}

	rows, err := store.ListUsage(ctx, "u1", "2026-10-01")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-10-05", rows[0].Date)
	assert.Equal(t, "2026-10-02", rows[1].Date)

	avg, err := store.AverageDailyUsage(ctx, "2026-10-01")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, avg, 1e-9)

	avg, err = store.AverageDailyUsage(ctx, "2027-01-01")
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestMemoryStore_AlertsExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := &model.WaterAlert{ID: model.NewID(), Severity: "high", ExpiresAt: &past, CreatedBy: "u"}
	live := &model.WaterAlert{ID: model.NewID(), Severity: "high", ExpiresAt: &future, CreatedBy: "u"}
	open := &model.WaterAlert{ID: model.NewID(), Severity: "low", CreatedBy: "u"}
	for _, a := range []*model.WaterAlert{expired, live, open} {
		require.NoError(t, store.CreateAlert(ctx, a))
	}

	active, err := store.ListAlerts(ctx, AlertFilter{ActiveAt: now})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	high, err := store.CountAlerts(ctx, AlertFilter{ActiveAt: now, Severity: "high"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, high)

	got, err := store.GetAlert(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, expired.ID, got.ID)
}

func TestMemoryStore_GuideUseCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g := &model.PurificationGuide{ID: model.NewID(), Title: "Boil", IsActive: true, CreatedBy: "u"}
	require.NoError(t, store.CreateGuide(ctx, g))

	for i := 1; i <= 3; i++ {
		got, err := store.GetGuideAndCountUse(ctx, g.ID)
		require.NoError(t, err)
		assert.EqualValues(t, i, got.UsageCount)
	}

	require.NoError(t, store.DeactivateGuide(ctx, g.ID, "u", time.Now()))
	_, err := store.GetGuideAndCountUse(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_WaterSourceQuality(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := &model.WaterSource{ID: model.NewID(), QualityStatus: model.QualityUnknown, AddedBy: "u", IsActive: true}
	require.NoError(t, store.CreateWaterSource(ctx, s))

	tested := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetWaterSourceQuality(ctx, s.ID, model.QualityUnsafe, tested))

	got, err := store.GetWaterSource(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QualityUnsafe, got.QualityStatus)
	require.NotNil(t, got.LastTestedAt)
	assert.Equal(t, tested, *got.LastTestedAt)

	n, err := store.CountWaterSources(ctx, WaterSourceFilter{QualityStatus: model.QualityUnsafe})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMemoryStore_MarkMessageReadOnlyForReceiver(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	msg := &model.Message{ID: model.NewID(), SenderID: "a", ReceiverID: "b", Content: "hi"}
	require.NoError(t, store.CreateMessage(ctx, msg))

	require.NoError(t, store.MarkMessageRead(ctx, msg.ID, "a"))
	assert.False(t, store.messages.rows[msg.ID].IsRead)

	require.NoError(t, store.MarkMessageRead(ctx, msg.ID, "b"))
	assert.True(t, store.messages.rows[msg.ID].IsRead)

	require.NoError(t, store.MarkMessageRead(ctx, "missing", "b"))

	forA, err := store.ListMessagesForUser(ctx, "a", 0)
	require.NoError(t, err)
	assert.Len(t, forA, 1)
}

func TestGeocodeCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewGeocodeCache(NewMemoryStore())
	stored := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return stored }

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, geocode.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "k", "1 Main St", &geocode.Result{Latitude: 1, Longitude: 2, Matched: true}))
	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, geocode.Result{Latitude: 1, Longitude: 2, Matched: true}, got.Result)
	assert.True(t, got.CachedAt.Equal(stored))
}
