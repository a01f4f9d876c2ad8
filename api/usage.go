package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/server"
	"github.com/kbukum/voicekit/usage"
	"github.com/kbukum/voicekit/validation"
)

type statsQuery struct {
	Period string `form:"period" validate:"omitempty,oneof=month year"`
}

type historyDaysQuery struct {
	Days int `form:"days" validate:"omitempty,min=1,max=365"`
}

func (h *Handler) currentUsage(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	snap, err := h.usage.Current(c.Request.Context(), u)
	if err != nil {
		respondError(c, err)
		return
	}
	server.RespondOK(c, snap)
}

func (h *Handler) usageStats(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var q statsQuery
	if !bindQuery(c, &q) {
		return
	}
	period := usage.Period(q.Period)
	if period == "" {
		period = usage.PeriodMonth
	}
	stats, err := h.usage.Stats(c.Request.Context(), u, period)
	if err != nil {
		respondError(c, err)
		return
	}
	server.RespondOK(c, stats)
}

func (h *Handler) usageHistory(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var q historyDaysQuery
	if !bindQuery(c, &q) {
		return
	}
	days, err := h.usage.History(c.Request.Context(), u, q.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	server.RespondOK(c, days)
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		respondError(c, validation.New().Custom(false, "query", "malformed query parameters").Validate())
		return false
	}
	if err := validation.Validate(req); err != nil {
		respondError(c, err)
		return false
	}
	return true
}
