package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/database/query"
	"github.com/kbukum/voicekit/store"
)

// listHistory pages through the user's transcriptions, newest first.
// Supports page, per_page, search and app.
func (h *Handler) listHistory(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	params := query.Parse(c.Request.URL.Query(), store.HistoryQuery)
	res, err := h.store.History.List(c.Request.Context(), u.ID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, res)
}

func (h *Handler) getHistory(c *gin.Context) {
	getOwned(c, h.store.History.Get)
}

func (h *Handler) deleteHistory(c *gin.Context) {
	deleteOwned(c, h.store.History.Delete)
}
