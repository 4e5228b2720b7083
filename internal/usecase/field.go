package usecase

import (
	"context"

	"github.com/oziev02/CommentField/internal/domain"
)

// CommentField связывает конфигурацию поля с хранилищем комментариев.
// Операции с данными делегируются хранилищу без изменений.
type CommentField struct {
	field     *domain.Field
	repo      domain.CommentRepository
	validator *ThreadValidator
}

// NewCommentField создает новый экземпляр CommentField
func NewCommentField(field *domain.Field, repo domain.CommentRepository, reporter Reporter) *CommentField {
	return &CommentField{
		field:     field,
		repo:      repo,
		validator: NewThreadValidator(field, reporter),
	}
}

func (f *CommentField) Field() *domain.Field { return f.field }

func (f *CommentField) MaxDepth() int { return f.validator.MaxDepth() }

func (f *CommentField) Validator() *ThreadValidator { return f.validator }

func (f *CommentField) Find(ctx context.Context, filter domain.CommentFilter) (domain.CommentList, error) {
	return f.repo.Find(ctx, f.field, filter)
}

func (f *CommentField) Count(ctx context.Context, filter domain.CommentFilter) (int, error) {
	return f.repo.Count(ctx, f.field, filter)
}

func (f *CommentField) GetByCode(ctx context.Context, page *domain.Page, code string) (*domain.Comment, error) {
	return f.repo.GetByCode(ctx, page, f.field, code)
}

func (f *CommentField) GetByID(ctx context.Context, page *domain.Page, id int64) (*domain.Comment, error) {
	return f.repo.GetByID(ctx, page, f.field, id)
}

func (f *CommentField) Create(ctx context.Context, page *domain.Page, comment *domain.Comment) error {
	return f.repo.Create(ctx, page, f.field, comment)
}

func (f *CommentField) Update(ctx context.Context, page *domain.Page, comment *domain.Comment, update domain.CommentUpdate) error {
	return f.repo.Update(ctx, page, f.field, comment, update)
}

func (f *CommentField) Delete(ctx context.Context, page *domain.Page, comment *domain.Comment, notes string) error {
	return f.repo.Delete(ctx, page, f.field, comment, notes)
}

func (f *CommentField) Vote(ctx context.Context, page *domain.Page, comment *domain.Comment, up bool) error {
	return f.repo.Vote(ctx, page, f.field, comment, up)
}

// AllowParent см. ThreadValidator.AllowParent
func (f *CommentField) AllowParent(c, parent *domain.Comment, verbose bool) bool {
	return f.validator.AllowParent(c, parent, verbose)
}

// AllowParentID см. ThreadValidator.AllowParentID
func (f *CommentField) AllowParentID(c *domain.Comment, parentID int64, verbose bool) bool {
	return f.validator.AllowParentID(c, parentID, verbose)
}

// AllowPage см. ThreadValidator.AllowPage
func (f *CommentField) AllowPage(c *domain.Comment, page *domain.Page, verbose bool) bool {
	return f.validator.AllowPage(c, page, verbose)
}

// Deletable см. ThreadValidator.Deletable
func (f *CommentField) Deletable(c *domain.Comment) bool {
	return f.validator.Deletable(c)
}
