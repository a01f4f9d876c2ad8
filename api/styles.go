package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/polish"
	"github.com/kbukum/voicekit/server"
	"github.com/kbukum/voicekit/store"
)

type styleRequest struct {
	AppIdentifier string `json:"app_identifier" validate:"required,max=100"`
	AppName       string `json:"app_name" validate:"required,max=100"`
	Style         string `json:"style" validate:"required,oneof=formal casual extremely_casual"`
}

func (h *Handler) listStyles(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	rows, err := h.store.Styles.List(c.Request.Context(), u.ID)
	respondList(c, rows, err)
}

// putStyle creates or replaces the preference for an app.
func (h *Handler) putStyle(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req styleRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	pref := &store.StylePreference{
		UserID:        u.ID,
		AppIdentifier: req.AppIdentifier,
		AppName:       req.AppName,
		Style:         req.Style,
	}
	if err := h.store.Styles.Upsert(ctx, pref); err != nil {
		respondError(c, err)
		return
	}
	saved, err := h.store.Styles.Get(ctx, u.ID, req.AppIdentifier)
	if err != nil {
		respondError(c, err)
		return
	}
	server.RespondOK(c, saved)
}

// deleteStyle removes the preference for the :app path segment.
func (h *Handler) deleteStyle(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.store.Styles.Delete(c.Request.Context(), u.ID, c.Param("app")); err != nil {
		respondError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// DefaultStyleResponse is the style polish uses when a request names none
// and no app preference matches.
type DefaultStyleResponse struct {
	DefaultStyle string `json:"default_style"`
}

type defaultStyleRequest struct {
	Style string `json:"style" validate:"required,oneof=formal casual extremely_casual"`
}

func (h *Handler) getDefaultStyle(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	style := u.DefaultStyle
	if style == "" {
		style = polish.DefaultStyle
	}
	server.RespondOK(c, DefaultStyleResponse{DefaultStyle: style})
}

func (h *Handler) putDefaultStyle(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req defaultStyleRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.store.Users.SetDefaultStyle(c.Request.Context(), u.ID, req.Style); err != nil {
		respondError(c, err)
		return
	}
	server.RespondOK(c, DefaultStyleResponse{DefaultStyle: req.Style})
}
