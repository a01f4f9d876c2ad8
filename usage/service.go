// Package usage accounts transcribed minutes per user and day and answers
// monthly quota questions.
package usage

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/voicekit/database"
	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/store"
)

// Snapshot is a user's consumption in the current calendar month.
type Snapshot struct {
	MinutesUsed        float64 `json:"minutes_used"`
	MinutesLimit       int     `json:"minutes_limit"`
	TranscriptionCount int     `json:"transcription_count"`
	DaysRemaining      int     `json:"days_remaining"`
	Plan               string  `json:"plan"`
	IsUnlimited        bool    `json:"is_unlimited"`
	UsagePercentage    float64 `json:"usage_percentage"`
}

// HasAvailable reports whether another transcription may start. A user
// who used exactly the limit is blocked.
func (s Snapshot) HasAvailable() bool {
	return s.IsUnlimited || s.MinutesUsed < float64(s.MinutesLimit)
}

// Period groups Stats buckets.
type Period string

const (
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Bucket is one month or year of usage.
type Bucket struct {
	Period         string  `json:"period"`
	Minutes        float64 `json:"minutes"`
	Transcriptions int     `json:"transcriptions"`
}

// Stats summarizes the last 12 months or the last 2 years.
type Stats struct {
	TotalMinutes        float64  `json:"total_minutes"`
	TotalTranscriptions int      `json:"total_transcriptions"`
	ByPeriod            []Bucket `json:"by_period"`
}

// Day is one row of History.
type Day struct {
	Date               string  `json:"date"`
	MinutesUsed        float64 `json:"minutes_used"`
	TranscriptionCount int     `json:"transcription_count"`
}

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
)

// Service reads and writes the usages table.
type Service struct {
	db  *gorm.DB
	cfg Config
	loc *time.Location
	now func() time.Time
	log *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. cfg must be valid after ApplyDefaults.
func NewService(db *gorm.DB, cfg Config, log *logger.Logger, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, _ := time.LoadLocation(cfg.Timezone)
	s := &Service{db: db, cfg: cfg, loc: loc, now: time.Now, log: log.WithComponent("usage")}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) clock() time.Time { return s.now().In(s.loc) }

// Track adds minutes to today's row for userID and counts one
// transcription. The increment happens in a single upsert statement, so
// concurrent calls never lose updates.
func (s *Service) Track(ctx context.Context, userID uint, minutes float64) error {
	now := s.clock()
	row := store.Usage{
		UserID:             userID,
		Date:               store.Day(now),
		MinutesUsed:        minutes,
		TranscriptionCount: 1,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"minutes_used":        gorm.Expr("usages.minutes_used + ?", minutes),
			"transcription_count": gorm.Expr("usages.transcription_count + 1"),
			"updated_at":          now,
		}),
	}).Create(&row).Error
	if err != nil {
		return database.FromDatabase(err, "usage")
	}

	s.log.WithContext(ctx).Debug("Usage tracked", logger.Fields(
		logger.FieldUserID, userID, logger.FieldMinutes, minutes,
	))
	return nil
}

// Current returns u's consumption for the current calendar month.
func (s *Service) Current(ctx context.Context, u *store.User) (*Snapshot, error) {
	now := s.clock()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	endOfMonth := first.AddDate(0, 1, 0).Add(-time.Nanosecond)

	var totals struct {
		TotalMinutes float64
		TotalCount   int
	}
	err := s.db.WithContext(ctx).Model(&store.Usage{}).
		Select("COALESCE(SUM(minutes_used), 0) AS total_minutes, COALESCE(SUM(transcription_count), 0) AS total_count").
		Where("user_id = ? AND date BETWEEN ? AND ?", u.ID, store.Day(first), store.Day(endOfMonth)).
		Scan(&totals).Error
	if err != nil {
		return nil, database.FromDatabase(err, "usage")
	}

	limit := s.cfg.LimitFor(u.Plan)
	snap := &Snapshot{
		MinutesUsed:        round(totals.TotalMinutes, 2),
		MinutesLimit:       limit,
		TranscriptionCount: totals.TotalCount,
		DaysRemaining:      int(endOfMonth.Sub(now).Hours() / 24),
		Plan:               u.Plan,
		IsUnlimited:        limit == Unlimited,
	}
	if limit > 0 {
		snap.UsagePercentage = math.Min(100, round(totals.TotalMinutes/float64(limit)*100, 1))
	}
	return snap, nil
}

// HasAvailableMinutes reports whether u may start another transcription.
func (s *Service) HasAvailableMinutes(ctx context.Context, u *store.User) (bool, error) {
	snap, err := s.Current(ctx, u)
	if err != nil {
		return false, err
	}
	return snap.HasAvailable(), nil
}

// RemainingMinutes returns the minutes left this month, or math.MaxFloat64
// for unlimited plans.
func (s *Service) RemainingMinutes(ctx context.Context, u *store.User) (float64, error) {
	snap, err := s.Current(ctx, u)
	if err != nil {
		return 0, err
	}
	if snap.IsUnlimited {
		return math.MaxFloat64, nil
	}
	return math.Max(0, float64(snap.MinutesLimit)-snap.MinutesUsed), nil
}

// Stats buckets u's usage by month over the last 12 months, or by year over
// the last 2 years. Buckets are in chronological order.
func (s *Service) Stats(ctx context.Context, u *store.User, period Period) (*Stats, error) {
	now := s.clock()
	var start time.Time
	layout := "2006-01"
	switch period {
	case PeriodYear:
		start = time.Date(now.Year()-2, time.January, 1, 0, 0, 0, 0, s.loc)
		layout = "2006"
	case PeriodMonth, "":
		m := now.AddDate(0, -12, 0)
		start = time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, s.loc)
	default:
		return nil, fmt.Errorf("unknown period %q", period)
	}

	var rows []store.Usage
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", u.ID, store.Day(start)).
		Order("date").Find(&rows).Error; err != nil {
		return nil, database.FromDatabase(err, "usage")
	}

	stats := &Stats{ByPeriod: []Bucket{}}
	index := map[string]int{}
	var total float64
	for _, r := range rows {
		key := r.Date.Format(layout)
		i, ok := index[key]
		if !ok {
			i = len(stats.ByPeriod)
			index[key] = i
			stats.ByPeriod = append(stats.ByPeriod, Bucket{Period: key})
		}
		stats.ByPeriod[i].Minutes += r.MinutesUsed
		stats.ByPeriod[i].Transcriptions += r.TranscriptionCount
		total += r.MinutesUsed
		stats.TotalTranscriptions += r.TranscriptionCount
	}
	for i := range stats.ByPeriod {
		stats.ByPeriod[i].Minutes = round(stats.ByPeriod[i].Minutes, 2)
	}
	stats.TotalMinutes = round(total, 2)
	return stats, nil
}

// History lists u's daily rows for the trailing days (today included),
// newest first. days is clamped to [1, MaxHistoryDays]; 0 means
// DefaultHistoryDays.
func (s *Service) History(ctx context.Context, u *store.User, days int) ([]Day, error) {
	switch {
	case days == 0:
		days = DefaultHistoryDays
	case days < 1:
		days = 1
	case days > MaxHistoryDays:
		days = MaxHistoryDays
	}
	start := store.Day(s.clock().AddDate(0, 0, 1-days))

	var rows []store.Usage
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", u.ID, start).
		Order("date DESC").Find(&rows).Error; err != nil {
		return nil, database.FromDatabase(err, "usage")
	}

	out := make([]Day, len(rows))
	for i, r := range rows {
		out[i] = Day{
			Date:               r.Date.Format(time.DateOnly),
			MinutesUsed:        round(r.MinutesUsed, 2),
			TranscriptionCount: r.TranscriptionCount,
		}
	}
	return out, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
