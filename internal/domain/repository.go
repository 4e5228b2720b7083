package domain

import "context"

// CommentRepository хранилище комментариев поля.
// Вся работа с данными (поиск, подсчёт, голосование, удаление) выполняется здесь.
type CommentRepository interface {
	Create(ctx context.Context, page *Page, field *Field, comment *Comment) error
	Find(ctx context.Context, field *Field, filter CommentFilter) (CommentList, error)
	Count(ctx context.Context, field *Field, filter CommentFilter) (int, error)
	GetByCode(ctx context.Context, page *Page, field *Field, code string) (*Comment, error)
	GetByID(ctx context.Context, page *Page, field *Field, id int64) (*Comment, error)
	Update(ctx context.Context, page *Page, field *Field, comment *Comment, update CommentUpdate) error
	Delete(ctx context.Context, page *Page, field *Field, comment *Comment, notes string) error
	Vote(ctx context.Context, page *Page, field *Field, comment *Comment, up bool) error
}

// PageRepository загружает страницы вместе с коллекциями комментариев и конфигурацию полей
type PageRepository interface {
	PageByID(ctx context.Context, id int64) (*Page, error)
	FieldByName(ctx context.Context, name string) (*Field, error)
}
