package repository

import (
	"context"

	"github.com/cintyy73/template-todo-list/internal/model"
)

// DB は永続化層の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository は連絡先コレクション全体の永続化インターフェース
type ContactRepository interface {
	// Load returns the stored collection. On any failure it returns an empty,
	// non-nil slice together with an error wrapping ErrStoreRead.
	Load(ctx context.Context) ([]model.Contact, error)

	// Save replaces the stored collection with contacts.
	Save(ctx context.Context, contacts []model.Contact) error
}
