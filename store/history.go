package store

import (
	"context"

	"github.com/kbukum/voicekit/database/query"
)

// HistoryQuery configures the history list: search over both texts and an
// "app" filter on app_context.
var HistoryQuery = query.Config{
	SearchFields: []string{"original_text", "polished_text"},
	Filters:      map[string]string{"app": "app_context"},
	DefaultSort:  "created_at DESC, id DESC",
}

// History stores transcription history rows. Get and Delete come from
// Owned; List pages instead of returning every row.
type History struct {
	Owned[Transcription]
}

// List returns one page of userID's history, newest first.
func (r *History) List(ctx context.Context, userID uint, params query.Params) (*query.Result[Transcription], error) {
	scoped := r.db.WithContext(ctx).Model(&Transcription{}).Where("user_id = ?", userID)
	res, err := query.Page[Transcription](scoped, params, HistoryQuery)
	return res, wrap(err, r.resource)
}
