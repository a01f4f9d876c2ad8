package store

import (
	"context"
)

// Dictionary stores personal words and reads team-shared words.
type Dictionary struct {
	Owned[DictionaryWord]
}

// Vocabulary returns the user's personal words followed by the shared
// words of the user's current team, both in insertion order. Duplicates
// are kept and nothing is truncated.
func (r *Dictionary) Vocabulary(ctx context.Context, u *User) ([]string, error) {
	var words []string
	if err := r.db.WithContext(ctx).Model(&DictionaryWord{}).
		Where("user_id = ?", u.ID).Order("id").
		Pluck("word", &words).Error; err != nil {
		return nil, wrap(err, r.resource)
	}
	if u.CurrentTeamID == nil {
		return words, nil
	}

	var shared []string
	if err := r.db.WithContext(ctx).Model(&SharedDictionaryWord{}).
		Where("team_id = ?", *u.CurrentTeamID).Order("id").
		Pluck("word", &shared).Error; err != nil {
		return nil, wrap(err, "shared dictionary word")
	}
	return append(words, shared...), nil
}

// CreateShared inserts a team-shared word.
func (r *Dictionary) CreateShared(ctx context.Context, w *SharedDictionaryWord) error {
	return wrap(r.db.WithContext(ctx).Create(w).Error, "shared dictionary word")
}
