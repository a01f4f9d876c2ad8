// Package gate holds the gin middlewares that stand between an
// authenticated request and the dictation pipelines: the monthly minute
// quota, usage tracking after a successful transcription, and the per-plan
// request rate limit.
package gate

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/auth"
	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/store"
	"github.com/kbukum/voicekit/usage"
)

const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderRetryAfter = "Retry-After"

	durationKey = "gate.duration_seconds"
)

// Quota reports a user's monthly consumption.
type Quota interface {
	Current(ctx context.Context, u *store.User) (*usage.Snapshot, error)
}

// Tracker records consumed minutes.
type Tracker interface {
	Track(ctx context.Context, userID uint, minutes float64) error
}

// MinuteRecorder exports tracked minutes per plan.
type MinuteRecorder interface {
	RecordMinutes(ctx context.Context, plan string, minutes float64)
}

type meteredTracker struct {
	Tracker
	rec MinuteRecorder
}

// Metered reports every successful Track to rec under the plan of the
// user on ctx.
func Metered(t Tracker, rec MinuteRecorder) Tracker {
	return &meteredTracker{Tracker: t, rec: rec}
}

func (m *meteredTracker) Track(ctx context.Context, userID uint, minutes float64) error {
	if err := m.Tracker.Track(ctx, userID, minutes); err != nil {
		return err
	}
	plan := store.PlanFree
	if u, ok := auth.UserFrom(ctx); ok {
		plan = u.Plan
	}
	m.rec.RecordMinutes(ctx, plan, minutes)
	return nil
}

// RecordDuration tells TrackUsage how many seconds of audio the handler
// processed.
func RecordDuration(c *gin.Context, seconds float64) {
	c.Set(durationKey, seconds)
}

// RequireMinutes aborts with 429 USAGE_LIMIT_EXCEEDED when the user has no
// minutes left this month. The snapshot is returned under details.usage.
func RequireMinutes(quota Quota) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c)
		if !ok {
			abort(c, apperrors.Unauthorized(""))
			return
		}
		snap, err := quota.Current(c.Request.Context(), u)
		if err != nil {
			abort(c, apperrors.Wrap(err))
			return
		}
		if !snap.HasAvailable() {
			abort(c, apperrors.UsageLimitExceeded().WithDetail("usage", snap))
			return
		}
		c.Next()
	}
}

// TrackUsage runs the handler and then, if the response is 2xx and the
// handler called RecordDuration with a positive value, tracks
// seconds/60 minutes. Tracking failures are logged; the response has
// already been written.
func TrackUsage(tracker Tracker, log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("gate")
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		seconds := c.GetFloat64(durationKey)
		if seconds <= 0 {
			return
		}
		u, ok := auth.CurrentUser(c)
		if !ok {
			return
		}
		ctx := context.WithoutCancel(c.Request.Context())
		if err := tracker.Track(ctx, u.ID, seconds/60); err != nil {
			log.WithContext(ctx).WithError(err).Error("Failed to track usage", logger.Fields(
				logger.FieldUserID, u.ID, logger.FieldMinutes, seconds/60,
			))
		}
	}
}

// RateLimitByPlan limits each user to cfg.LimitFor(plan) requests per
// minute. Limiter errors let the request through.
func RateLimitByPlan(limiter Limiter, cfg Config, log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("gate")
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Warn("Invalid rate limits, using defaults")
		cfg = Config{PerPlan: DefaultRateLimits()}
	}
	return func(c *gin.Context) {
		plan, key := store.PlanFree, "ip:"+c.ClientIP()
		if u, ok := auth.CurrentUser(c); ok {
			plan, key = u.Plan, "user:"+strconv.FormatUint(uint64(u.ID), 10)
		}
		limit := cfg.LimitFor(plan)

		d, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			log.WithContext(c.Request.Context()).WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header(HeaderLimit, strconv.Itoa(d.Limit))
		c.Header(HeaderRemaining, strconv.Itoa(d.Remaining))
		if !d.Allowed {
			retry := int(math.Ceil(d.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header(HeaderRetryAfter, strconv.Itoa(retry))
			abort(c, apperrors.RateLimited().WithDetails(map[string]any{
				"limit":       d.Limit,
				"retry_after": retry,
				"plan":        plan,
			}))
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err *apperrors.AppError) {
	if err.HTTPStatus == 0 {
		err.HTTPStatus = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
