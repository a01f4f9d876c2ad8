package store

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/kbukum/voicekit/database"
	apperrors "github.com/kbukum/voicekit/errors"
)

// Store groups the repositories over one database.
type Store struct {
	Users      *Users
	Dictionary *Dictionary
	Commands   *Toggleable[CustomCommand]
	Snippets   *Toggleable[Snippet]
	Styles     *Styles
	History    *History
}

// New builds every repository over db.
func New(db *gorm.DB) *Store {
	return &Store{
		Users:      &Users{db: db},
		Dictionary: &Dictionary{Owned: Owned[DictionaryWord]{db: db, resource: "dictionary word"}},
		Commands:   &Toggleable[CustomCommand]{Owned[CustomCommand]{db: db, resource: "command"}},
		Snippets:   &Toggleable[Snippet]{Owned[Snippet]{db: db, resource: "snippet"}},
		Styles:     &Styles{db: db},
		History:    &History{Owned: Owned[Transcription]{db: db, resource: "transcription"}},
	}
}

func wrap(err error, resource string) error {
	if err == nil {
		return nil
	}
	return database.FromDatabase(err, resource)
}

// Owned is a repository for rows owned by a single user_id. Rows are
// returned in insertion order.
type Owned[T any] struct {
	db       *gorm.DB
	resource string
}

// List returns every row owned by userID.
func (r *Owned[T]) List(ctx context.Context, userID uint) ([]T, error) {
	var rows []T
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error
	return rows, wrap(err, r.resource)
}

// Create inserts row.
func (r *Owned[T]) Create(ctx context.Context, row *T) error {
	return wrap(r.db.WithContext(ctx).Create(row).Error, r.resource)
}

// Get returns the row id if userID owns it.
func (r *Owned[T]) Get(ctx context.Context, userID, id uint) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&row).Error
	if err != nil {
		return nil, r.notFound(err, id)
	}
	return &row, nil
}

// Update applies values to the row id if userID owns it and returns the
// stored row. The row keeps its id, and with it its place in stored order.
func (r *Owned[T]) Update(ctx context.Context, userID, id uint, values map[string]any) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(new(T)).Where("id = ? AND user_id = ?", id, userID).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&row, id).Error
	})
	if err != nil {
		return nil, r.notFound(err, id)
	}
	return &row, nil
}

func (r *Owned[T]) notFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(r.resource, strconv.FormatUint(uint64(id), 10))
	}
	return wrap(err, r.resource)
}

// Delete removes the row id if userID owns it.
func (r *Owned[T]) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(new(T))
	if res.Error != nil {
		return wrap(res.Error, r.resource)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(r.resource, strconv.FormatUint(uint64(id), 10))
	}
	return nil
}

// Toggleable is an Owned repository for rows with an is_active flag.
type Toggleable[T any] struct {
	Owned[T]
}

// Active returns the active rows owned by userID.
func (r *Toggleable[T]) Active(ctx context.Context, userID uint) ([]T, error) {
	var rows []T
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id").
		Find(&rows).Error
	return rows, wrap(err, r.resource)
}

// Toggle flips is_active on the row id and returns the updated row.
func (r *Toggleable[T]) Toggle(ctx context.Context, userID, id uint) (*T, error) {
	return r.Update(ctx, userID, id, map[string]any{"is_active": gorm.Expr("NOT is_active")})
}

// Users loads accounts.
type Users struct {
	db *gorm.DB
}

// Get loads the user id.
func (r *Users) Get(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, wrap(err, "user")
	}
	return &u, nil
}

// Create inserts u.
func (r *Users) Create(ctx context.Context, u *User) error {
	return wrap(r.db.WithContext(ctx).Create(u).Error, "user")
}

// SetDefaultStyle stores the style used when a request names none.
func (r *Users) SetDefaultStyle(ctx context.Context, userID uint, style string) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("default_style", style)
	if res.Error != nil {
		return wrap(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user", strconv.FormatUint(uint64(userID), 10))
	}
	return nil
}
