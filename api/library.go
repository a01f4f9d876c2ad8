package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/server"
	"github.com/kbukum/voicekit/store"
)

type wordRequest struct {
	Word          string `json:"word" validate:"required,max=255"`
	Category      string `json:"category" validate:"max=50"`
	Pronunciation string `json:"pronunciation" validate:"max=255"`
}

type commandRequest struct {
	TriggerPhrase   string `json:"trigger_phrase" validate:"required,max=255"`
	ReplacementText string `json:"replacement_text" validate:"required,max=5000"`
}

type snippetRequest struct {
	TriggerPhrase string `json:"trigger_phrase" validate:"required,max=100"`
	ExpansionText string `json:"expansion_text" validate:"required,max=5000"`
	Category      string `json:"category" validate:"max=50"`
}

func (h *Handler) listWords(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	rows, err := h.store.Dictionary.List(c.Request.Context(), u.ID)
	respondList(c, rows, err)
}

func (h *Handler) createWord(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req wordRequest
	if !bindJSON(c, &req) {
		return
	}
	w := &store.DictionaryWord{UserID: u.ID, Word: req.Word, Category: categoryOrDefault(req.Category)}
	if req.Pronunciation != "" {
		w.Pronunciation = &req.Pronunciation
	}
	if err := h.store.Dictionary.Create(c.Request.Context(), w); err != nil {
		respondError(c, err)
		return
	}
	server.RespondCreated(c, w)
}

func (h *Handler) getWord(c *gin.Context) {
	getOwned(c, h.store.Dictionary.Get)
}

func (h *Handler) updateWord(c *gin.Context) {
	var req wordRequest
	updateOwned(c, &req, h.store.Dictionary.Update, func() map[string]any {
		var pronunciation any
		if req.Pronunciation != "" {
			pronunciation = req.Pronunciation
		}
		return map[string]any{
			"word":          req.Word,
			"category":      categoryOrDefault(req.Category),
			"pronunciation": pronunciation,
		}
	})
}

func (h *Handler) deleteWord(c *gin.Context) {
	deleteOwned(c, h.store.Dictionary.Delete)
}

func (h *Handler) listCommands(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	rows, err := h.store.Commands.List(c.Request.Context(), u.ID)
	respondList(c, rows, err)
}

// createCommand stores a new command. New commands are active.
func (h *Handler) createCommand(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req commandRequest
	if !bindJSON(c, &req) {
		return
	}
	cmd := &store.CustomCommand{
		UserID:          u.ID,
		TriggerPhrase:   req.TriggerPhrase,
		ReplacementText: req.ReplacementText,
		IsActive:        true,
	}
	if err := h.store.Commands.Create(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}
	server.RespondCreated(c, cmd)
}

func (h *Handler) getCommand(c *gin.Context) {
	getOwned(c, h.store.Commands.Get)
}

// updateCommand rewrites the trigger and replacement in place. The active
// flag is left alone.
func (h *Handler) updateCommand(c *gin.Context) {
	var req commandRequest
	updateOwned(c, &req, h.store.Commands.Update, func() map[string]any {
		return map[string]any{
			"trigger_phrase":   req.TriggerPhrase,
			"replacement_text": req.ReplacementText,
		}
	})
}

func (h *Handler) deleteCommand(c *gin.Context) {
	deleteOwned(c, h.store.Commands.Delete)
}

func (h *Handler) toggleCommand(c *gin.Context) {
	toggleOwned(c, h.store.Commands)
}

func (h *Handler) listSnippets(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	rows, err := h.store.Snippets.List(c.Request.Context(), u.ID)
	respondList(c, rows, err)
}

// createSnippet stores a new snippet. New snippets are active.
func (h *Handler) createSnippet(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req snippetRequest
	if !bindJSON(c, &req) {
		return
	}
	sn := &store.Snippet{
		UserID:        u.ID,
		TriggerPhrase: req.TriggerPhrase,
		ExpansionText: req.ExpansionText,
		Category:      categoryOrDefault(req.Category),
		IsActive:      true,
	}
	if err := h.store.Snippets.Create(c.Request.Context(), sn); err != nil {
		respondError(c, err)
		return
	}
	server.RespondCreated(c, sn)
}

func (h *Handler) getSnippet(c *gin.Context) {
	getOwned(c, h.store.Snippets.Get)
}

func (h *Handler) updateSnippet(c *gin.Context) {
	var req snippetRequest
	updateOwned(c, &req, h.store.Snippets.Update, func() map[string]any {
		return map[string]any{
			"trigger_phrase": req.TriggerPhrase,
			"expansion_text": req.ExpansionText,
			"category":       categoryOrDefault(req.Category),
		}
	})
}

func (h *Handler) deleteSnippet(c *gin.Context) {
	deleteOwned(c, h.store.Snippets.Delete)
}

func (h *Handler) toggleSnippet(c *gin.Context) {
	toggleOwned(c, h.store.Snippets)
}

func categoryOrDefault(category string) string {
	if category == "" {
		return store.DefaultCategory
	}
	return category
}

func respondList[T any](c *gin.Context, rows []T, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	server.RespondOK(c, rows)
}

func deleteOwned(c *gin.Context, del func(ctx context.Context, userID, id uint) error) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := del(c.Request.Context(), u.ID, id); err != nil {
		respondError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func getOwned[T any](c *gin.Context, get func(ctx context.Context, userID, id uint) (*T, error)) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	row, err := get(c.Request.Context(), u.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	server.RespondOK(c, row)
}

// updateOwned binds req, then stores the columns values builds from it.
func updateOwned[T any](
	c *gin.Context,
	req any,
	update func(ctx context.Context, userID, id uint, values map[string]any) (*T, error),
	values func() map[string]any,
) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !bindJSON(c, req) {
		return
	}
	row, err := update(c.Request.Context(), u.ID, id, values())
	if err != nil {
		respondError(c, err)
		return
	}
	server.RespondOK(c, row)
}

func toggleOwned[T any](c *gin.Context, repo *store.Toggleable[T]) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	row, err := repo.Toggle(c.Request.Context(), u.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	server.RespondOK(c, row)
}
