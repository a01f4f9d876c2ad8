// Package api exposes the dictation pipelines, usage reports, history and
// the per-user inputs the pipelines read over gin.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/auth"
	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/polish"
	"github.com/kbukum/voicekit/store"
	"github.com/kbukum/voicekit/transcription"
	"github.com/kbukum/voicekit/usage"
)

// Transcriber runs the transcription pipeline.
type Transcriber interface {
	Transcribe(ctx context.Context, u *store.User, in transcription.Input) (*transcription.Output, error)
}

// Polisher runs the polishing pipeline.
type Polisher interface {
	Polish(ctx context.Context, u *store.User, in polish.Input) (*polish.Output, error)
}

// UsageReporter answers the read-only usage queries.
type UsageReporter interface {
	Current(ctx context.Context, u *store.User) (*usage.Snapshot, error)
	Stats(ctx context.Context, u *store.User, period usage.Period) (*usage.Stats, error)
	History(ctx context.Context, u *store.User, days int) ([]usage.Day, error)
}

// Gates are the request gate middlewares. Nil entries are skipped.
type Gates struct {
	RateLimit      gin.HandlerFunc
	RequireMinutes gin.HandlerFunc
	TrackUsage     gin.HandlerFunc
}

// Handler serves /api/v1.
type Handler struct {
	transcriber Transcriber
	polisher    Polisher
	usage       UsageReporter
	store       *store.Store
	log         *logger.Logger
}

// New creates a Handler.
func New(transcriber Transcriber, polisher Polisher, usage UsageReporter, st *store.Store, log *logger.Logger) *Handler {
	return &Handler{
		transcriber: transcriber,
		polisher:    polisher,
		usage:       usage,
		store:       st,
		log:         log.WithComponent("api"),
	}
}

// Register mounts every route on rg. rg must already run the identity
// middleware.
func (h *Handler) Register(rg *gin.RouterGroup, g Gates) {
	limited := rg.Group("", chain(g.RateLimit)...)

	limited.POST("/transcribe", chain(g.RequireMinutes, g.TrackUsage, h.transcribe)...)
	limited.POST("/polish", chain(g.RequireMinutes, h.polish)...)
	limited.POST("/transcribe-and-polish", chain(g.RequireMinutes, g.TrackUsage, h.transcribeAndPolish)...)

	limited.GET("/usage", h.currentUsage)
	limited.GET("/usage/stats", h.usageStats)
	limited.GET("/usage/history", h.usageHistory)

	limited.GET("/history", h.listHistory)
	limited.GET("/history/:id", h.getHistory)
	limited.DELETE("/history/:id", h.deleteHistory)

	limited.GET("/dictionary", h.listWords)
	limited.POST("/dictionary", h.createWord)
	limited.GET("/dictionary/:id", h.getWord)
	limited.PUT("/dictionary/:id", h.updateWord)
	limited.DELETE("/dictionary/:id", h.deleteWord)

	limited.GET("/commands", h.listCommands)
	limited.POST("/commands", h.createCommand)
	limited.GET("/commands/:id", h.getCommand)
	limited.PUT("/commands/:id", h.updateCommand)
	limited.DELETE("/commands/:id", h.deleteCommand)
	limited.PATCH("/commands/:id/toggle", h.toggleCommand)

	limited.GET("/snippets", h.listSnippets)
	limited.POST("/snippets", h.createSnippet)
	limited.GET("/snippets/:id", h.getSnippet)
	limited.PUT("/snippets/:id", h.updateSnippet)
	limited.DELETE("/snippets/:id", h.deleteSnippet)
	limited.PATCH("/snippets/:id/toggle", h.toggleSnippet)

	limited.GET("/styles", h.listStyles)
	limited.PUT("/styles", h.putStyle)
	limited.GET("/styles/default", h.getDefaultStyle)
	limited.PUT("/styles/default", h.putDefaultStyle)
	limited.DELETE("/styles/:app", h.deleteStyle)
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, hf := range handlers {
		if hf != nil {
			out = append(out, hf)
		}
	}
	return out
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(c *gin.Context) (*store.User, bool) {
	u, ok := auth.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.Unauthorized(""))
	}
	return u, ok
}
