// Package repository defines storage for every GlobalHaven entity, with a
// postgres implementation on gorm and an in-memory one.
package repository

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/geo"
	"github.com/lc3t35/GlobalHaven/internal/model"
)

var (
	// ErrNotFound is returned when no active row matches
	ErrNotFound = eris.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = eris.New("duplicate record")
)

// DefaultListLimit caps every list query
const DefaultListLimit = 1000

type ResourceFilter struct {
	Category string
	Type     string
	Near     *geo.Query
	Limit    int
}

type WaterSourceFilter struct {
	Type          string
	Accessibility string
	QualityStatus string
	Near          *geo.Query
	Limit         int
}

type PlanFilter struct {
	PlanType      string
	FundingStatus string
	Near          *geo.Query
	Limit         int
}

type GuideFilter struct {
	MethodType string
	Difficulty string
	Limit      int
}

// AlertFilter selects alerts. A zero ActiveAt includes expired alerts.
type AlertFilter struct {
	AlertType string
	Severity  string
	Near      *geo.Query
	ActiveAt  time.Time
	Limit     int
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	CountUsers(ctx context.Context) (int64, error)
}

type ResourceRepository interface {
	CreateResource(ctx context.Context, resource *model.Resource) error
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	UpdateResource(ctx context.Context, resource *model.Resource) error
	DeactivateResource(ctx context.Context, id, ownerID string, at time.Time) error
	ListResources(ctx context.Context, filter ResourceFilter) ([]model.Resource, error)
	CountResources(ctx context.Context, filter ResourceFilter) (int64, error)
	CountResourcesByCategory(ctx context.Context) (map[string]int64, error)
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, message *model.Message) error
	ListMessagesForUser(ctx context.Context, userID string, limit int) ([]model.Message, error)
	MarkMessageRead(ctx context.Context, id, receiverID string) error
}

type WaterSourceRepository interface {
	CreateWaterSource(ctx context.Context, source *model.WaterSource) error
	GetWaterSource(ctx context.Context, id string) (*model.WaterSource, error)
	UpdateWaterSource(ctx context.Context, source *model.WaterSource) error
	SetWaterSourceQuality(ctx context.Context, id, status string, testedAt time.Time) error
	DeactivateWaterSource(ctx context.Context, id, ownerID string, at time.Time) error
	ListWaterSources(ctx context.Context, filter WaterSourceFilter) ([]model.WaterSource, error)
	CountWaterSources(ctx context.Context, filter WaterSourceFilter) (int64, error)
}

type QualityReportRepository interface {
	CreateQualityReport(ctx context.Context, report *model.QualityReport) error
	ListQualityReports(ctx context.Context, sourceID string, limit int) ([]model.QualityReport, error)
}

type PlanRepository interface {
	CreatePlan(ctx context.Context, plan *model.InfrastructurePlan) error
	GetPlan(ctx context.Context, id string) (*model.InfrastructurePlan, error)
	UpdatePlan(ctx context.Context, plan *model.InfrastructurePlan) error
	DeactivatePlan(ctx context.Context, id, ownerID string, at time.Time) error
	ListPlans(ctx context.Context, filter PlanFilter) ([]model.InfrastructurePlan, error)
	CountPlans(ctx context.Context) (int64, error)
}

type GuideRepository interface {
	CreateGuide(ctx context.Context, guide *model.PurificationGuide) error
	// GetGuideAndCountUse bumps usage_count by one and returns the updated row
	GetGuideAndCountUse(ctx context.Context, id string) (*model.PurificationGuide, error)
	GetGuide(ctx context.Context, id string) (*model.PurificationGuide, error)
	UpdateGuide(ctx context.Context, guide *model.PurificationGuide) error
	DeactivateGuide(ctx context.Context, id, ownerID string, at time.Time) error
	ListGuides(ctx context.Context, filter GuideFilter) ([]model.PurificationGuide, error)
	CountGuides(ctx context.Context) (int64, error)
}

type AlertRepository interface {
	CreateAlert(ctx context.Context, alert *model.WaterAlert) error
	GetAlert(ctx context.Context, id string) (*model.WaterAlert, error)
	UpdateAlert(ctx context.Context, alert *model.WaterAlert) error
	ListAlerts(ctx context.Context, filter AlertFilter) ([]model.WaterAlert, error)
	CountAlerts(ctx context.Context, filter AlertFilter) (int64, error)
}

type UsageRepository interface {
	// UpsertUsage writes usage as the single row for (UserID, Date) and
	// returns the stored row
	UpsertUsage(ctx context.Context, usage *model.WaterUsage) (*model.WaterUsage, error)
	ListUsage(ctx context.Context, userID, since string) ([]model.WaterUsage, error)
	// AverageDailyUsage is the mean total_liters of every user's rows on or after since
	AverageDailyUsage(ctx context.Context, since string) (float64, error)
}

type GeocodeCacheRepository interface {
	GetGeocode(ctx context.Context, hash string) (*model.GeocodeCacheEntry, error)
	PutGeocode(ctx context.Context, entry *model.GeocodeCacheEntry) error
}

// Store bundles every repository behind one handle
type Store interface {
	UserRepository
	ResourceRepository
	MessageRepository
	WaterSourceRepository
	QualityReportRepository
	PlanRepository
	GuideRepository
	AlertRepository
	UsageRepository
	GeocodeCacheRepository
	Close() error
}

func limitOrDefault(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
