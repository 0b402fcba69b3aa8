package service

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

// UsageInput is one day of consumption. Date defaults to today.
type UsageInput struct {
	Date           *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DrinkingLiters float64 `json:"drinking_liters" validate:"gte=0"`
	CookingLiters  float64 `json:"cooking_liters" validate:"gte=0"`
	CleaningLiters float64 `json:"cleaning_liters" validate:"gte=0"`
	BathingLiters  float64 `json:"bathing_liters" validate:"gte=0"`
	OtherLiters    float64 `json:"other_liters" validate:"gte=0"`
	Notes          *string `json:"notes,omitempty"`
}

// CategoryAverages holds per-day liters by category
type CategoryAverages struct {
	Drinking float64 `json:"drinking"`
	Cooking  float64 `json:"cooking"`
	Cleaning float64 `json:"cleaning"`
	Bathing  float64 `json:"bathing"`
	Other    float64 `json:"other"`
}

// UsageStats compares a user's window with the community's
type UsageStats struct {
	DaysTracked           int              `json:"days_tracked"`
	TotalLiters           float64          `json:"total_liters"`
	DailyAverage          float64          `json:"daily_average"`
	CategoryAverages      CategoryAverages `json:"category_averages"`
	CommunityDailyAverage float64          `json:"community_daily_average"`
}

// UsageDays clamps a requested history window to [1, MaxUsageDays],
// defaulting to DefaultUsageDays
func UsageDays(days int) int {
	switch {
	case days <= 0:
		return DefaultUsageDays
	case days > MaxUsageDays:
		return MaxUsageDays
	default:
		return days
	}
}

// LogUsage records userID's consumption for one day, replacing whatever
// was logged for that day before
func (s *Service) LogUsage(ctx context.Context, userID string, in UsageInput) (*model.WaterUsage, error) {
	date := s.now().Format(model.DateLayout)
	if in.Date != nil && *in.Date != "" {
		date = *in.Date
	}
	in.Date = &date

	if err := s.check(in); err != nil {
		return nil, err
	}

	now := s.now()
	usage := &model.WaterUsage{
		ID:             model.NewID(),
		UserID:         userID,
		Date:           date,
		DrinkingLiters: in.DrinkingLiters,
		CookingLiters:  in.CookingLiters,
		CleaningLiters: in.CleaningLiters,
		BathingLiters:  in.BathingLiters,
		OtherLiters:    in.OtherLiters,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	usage.ComputeTotal()

	stored, err := s.store.UpsertUsage(ctx, usage)
	if err != nil {
		return nil, eris.Wrap(err, "failed to log water usage")
	}

	prometheus.RecordOperation("water_usage", "upsert")
	return stored, nil
}

// since is the first date of a window of days days ending today
func (s *Service) since(days int) string {
	return s.now().AddDate(0, 0, 1-UsageDays(days)).Format(model.DateLayout)
}

// UsageHistory returns userID's records for the last days days, latest first
func (s *Service) UsageHistory(ctx context.Context, userID string, days int) ([]model.WaterUsage, error) {
	rows, err := s.store.ListUsage(ctx, userID, s.since(days))
	if err != nil {
		return nil, eris.Wrap(err, "failed to list water usage")
	}
	return rows, nil
}

// UsageStats summarizes userID's window and compares it with everyone's
func (s *Service) UsageStats(ctx context.Context, userID string, days int) (*UsageStats, error) {
	since := s.since(days)

	rows, err := s.store.ListUsage(ctx, userID, since)
	if err != nil {
		return nil, eris.Wrap(err, "failed to list water usage")
	}
	community, err := s.store.AverageDailyUsage(ctx, since)
	if err != nil {
		return nil, eris.Wrap(err, "failed to average community usage")
	}

	stats := &UsageStats{DaysTracked: len(rows), CommunityDailyAverage: community}
	if len(rows) == 0 {
		return stats, nil
	}

	var sum CategoryAverages
	for _, r := range rows {
		stats.TotalLiters += r.TotalLiters
		sum.Drinking += r.DrinkingLiters
		sum.Cooking += r.CookingLiters
		sum.Cleaning += r.CleaningLiters
		sum.Bathing += r.BathingLiters
		sum.Other += r.OtherLiters
	}

	n := float64(len(rows))
	stats.DailyAverage = stats.TotalLiters / n
	stats.CategoryAverages = CategoryAverages{
		Drinking: sum.Drinking / n,
		Cooking:  sum.Cooking / n,
		Cleaning: sum.Cleaning / n,
		Bathing:  sum.Bathing / n,
		Other:    sum.Other / n,
	}
	return stats, nil
}
