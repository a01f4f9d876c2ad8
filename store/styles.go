package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/kbukum/voicekit/errors"
)

// Styles stores per-app style preferences.
type Styles struct {
	db *gorm.DB
}

// List returns userID's preferences in insertion order.
func (r *Styles) List(ctx context.Context, userID uint) ([]StylePreference, error) {
	var rows []StylePreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error
	return rows, wrap(err, "style preference")
}

// Lookup returns the style stored for (userID, app). ok is false when no
// preference exists.
func (r *Styles) Lookup(ctx context.Context, userID uint, app string) (style string, ok bool, err error) {
	var pref StylePreference
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND app_identifier = ?", userID, app).
		Take(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap(err, "style preference")
	}
	return pref.Style, true, nil
}

// Upsert creates or replaces the preference for (p.UserID, p.AppIdentifier).
func (r *Styles) Upsert(ctx context.Context, p *StylePreference) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "app_identifier"}},
		DoUpdates: clause.AssignmentColumns([]string{"app_name", "style", "updated_at"}),
	}).Create(p).Error
	return wrap(err, "style preference")
}

// Get returns the preference stored for (userID, app).
func (r *Styles) Get(ctx context.Context, userID uint, app string) (*StylePreference, error) {
	var pref StylePreference
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND app_identifier = ?", userID, app).
		Take(&pref).Error
	if err != nil {
		return nil, wrap(err, "style preference")
	}
	return &pref, nil
}

// Delete removes the preference for (userID, app).
func (r *Styles) Delete(ctx context.Context, userID uint, app string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND app_identifier = ?", userID, app).
		Delete(&StylePreference{})
	if res.Error != nil {
		return wrap(res.Error, "style preference")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("style preference", app)
	}
	return nil
}
