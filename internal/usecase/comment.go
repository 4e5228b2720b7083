package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oziev02/CommentField/internal/domain"
)

// Metrics принимает счётчики бизнес-событий
type Metrics interface {
	ObserveRejection(field, op, reason string)
	ObserveSubmission(field string, status domain.CommentStatus)
	ObserveVote(field string, up bool)
}

type nopMetrics struct{}

func (nopMetrics) ObserveRejection(string, string, string)        {}
func (nopMetrics) ObserveSubmission(string, domain.CommentStatus) {}
func (nopMetrics) ObserveVote(string, bool)                       {}

// CommentUseCase содержит бизнес-логику приёма и модерации комментариев
type CommentUseCase struct {
	pages    domain.PageRepository
	comments domain.CommentRepository
	logger   *slog.Logger
	metrics  Metrics
}

// NewCommentUseCase создает новый экземпляр CommentUseCase
func NewCommentUseCase(pages domain.PageRepository, comments domain.CommentRepository, logger *slog.Logger, metrics Metrics) *CommentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &CommentUseCase{
		pages:    pages,
		comments: comments,
		logger:   logger,
		metrics:  metrics,
	}
}

// SubmitInput данные нового комментария
type SubmitInput struct {
	PageID   int64
	Field    string
	ParentID int64
	Text     string
	Cite     string
	Email    string
}

// UpdateInput изменения существующего комментария
type UpdateInput struct {
	PageID   int64
	Field    string
	ID       int64
	Text     *string
	Cite     *string
	Email    *string
	Status   *domain.CommentStatus
	ParentID *int64
}

// Field возвращает аксессор поля по имени
func (uc *CommentUseCase) Field(ctx context.Context, name string) (*CommentField, error) {
	field, err := uc.pages.FieldByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}

	reporter := MultiReporter(
		LogReporter(uc.logger.With("field", field.Name)),
		ReporterFunc(func(op string, _ *domain.Comment, reason error) {
			uc.metrics.ObserveRejection(field.Name, op, domain.RejectionReason(reason))
		}),
	)

	return NewCommentField(field, uc.comments, reporter), nil
}

// load загружает страницу и поле, проверяя, что поле есть на странице
func (uc *CommentUseCase) load(ctx context.Context, pageID int64, fieldName string) (*domain.Page, *CommentField, error) {
	cf, err := uc.Field(ctx, fieldName)
	if err != nil {
		return nil, nil, err
	}

	page, err := uc.pages.PageByID(ctx, pageID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get page: %w", err)
	}

	if !page.HasField(cf.Field()) {
		return nil, nil, fmt.Errorf("%w: page %d, field %q", domain.ErrFieldNotOnPage, page.ID, cf.Field().Name)
	}

	return page, cf, nil
}

// pageComment ищет комментарий в загруженной коллекции страницы
func pageComment(page *domain.Page, cf *CommentField, id int64) (*domain.Comment, error) {
	list, _ := page.Comments(cf.Field())
	comment := list.Get(id)
	if comment == nil {
		return nil, fmt.Errorf("%w: id %d, page %d", domain.ErrCommentNotFound, id, page.ID)
	}
	return comment, nil
}

// reject отправляет отказ в Reporter поля и возвращает его как ошибку
func (uc *CommentUseCase) reject(cf *CommentField, op string, c *domain.Comment, err error) error {
	cf.Validator().reporter.Report(op, c, err)
	return err
}

// Submit проверяет и сохраняет новый комментарий или ответ
func (uc *CommentUseCase) Submit(ctx context.Context, in SubmitInput) (*domain.Comment, error) {
	in.Text = strings.TrimSpace(in.Text)
	in.Cite = strings.TrimSpace(in.Cite)
	in.Email = strings.TrimSpace(in.Email)
	if in.Text == "" || in.Cite == "" {
		return nil, domain.ErrEmptyContent
	}

	cf, err := uc.Field(ctx, in.Field)
	if err != nil {
		return nil, err
	}

	page, err := uc.pages.PageByID(ctx, in.PageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	status := domain.StatusApproved
	if cf.Field().Moderate {
		status = domain.StatusPending
	}

	draft := &domain.Comment{
		FieldID:  cf.Field().ID,
		ParentID: in.ParentID,
		Status:   status,
		Text:     in.Text,
		Cite:     in.Cite,
		Email:    in.Email,
	}

	if err := cf.Validator().CheckPage(draft, page); err != nil {
		return nil, uc.reject(cf, OpPage, draft, err)
	}

	draft.SetPage(page)
	if err := cf.Validator().CheckParentID(draft, in.ParentID); err != nil {
		return nil, uc.reject(cf, OpParent, draft, err)
	}

	if err := cf.Create(ctx, page, draft); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	uc.metrics.ObserveSubmission(cf.Field().Name, draft.Status)
	uc.logger.Info(
		"comment submitted",
		"field", cf.Field().Name,
		"page_id", page.ID,
		"comment_id", draft.ID,
		"parent_id", draft.ParentID,
		"status", draft.Status.String(),
	)

	return draft, nil
}

// Reparent переносит комментарий под другого родителя на той же странице
func (uc *CommentUseCase) Reparent(ctx context.Context, pageID int64, fieldName string, id, parentID int64) (*domain.Comment, error) {
	return uc.Update(ctx, UpdateInput{PageID: pageID, Field: fieldName, ID: id, ParentID: &parentID})
}

// Update изменяет свойства комментария; смена родителя проходит проверку ветвления
func (uc *CommentUseCase) Update(ctx context.Context, in UpdateInput) (*domain.Comment, error) {
	update := domain.CommentUpdate{
		Text:     in.Text,
		Cite:     in.Cite,
		Email:    in.Email,
		Status:   in.Status,
		ParentID: in.ParentID,
	}
	if update.IsEmpty() {
		return nil, domain.ErrNothingToUpdate
	}
	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return nil, domain.ErrEmptyContent
		}
		update.Text = &text
	}

	page, cf, err := uc.load(ctx, in.PageID, in.Field)
	if err != nil {
		return nil, err
	}

	comment, err := pageComment(page, cf, in.ID)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil && *in.ParentID != comment.ParentID {
		if err := cf.Validator().CheckParentID(comment, *in.ParentID); err != nil {
			return nil, uc.reject(cf, OpParent, comment, err)
		}
	}

	// пометка удалённым подчиняется тем же правилам, что и Remove
	if in.Status != nil && *in.Status >= domain.StatusDelete {
		if err := cf.Validator().CheckDeletable(comment); err != nil {
			return nil, uc.reject(cf, OpDelete, comment, err)
		}
	}

	if err := cf.Update(ctx, page, comment, update); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// Remove удаляет комментарий, если у него нет живых ответов
func (uc *CommentUseCase) Remove(ctx context.Context, pageID int64, fieldName string, id int64, notes string) error {
	page, cf, err := uc.load(ctx, pageID, fieldName)
	if err != nil {
		return err
	}

	comment, err := pageComment(page, cf, id)
	if err != nil {
		return err
	}

	if err := cf.Validator().CheckDeletable(comment); err != nil {
		return uc.reject(cf, OpDelete, comment, err)
	}

	if err := cf.Delete(ctx, page, comment, strings.TrimSpace(notes)); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// Vote учитывает голос за комментарий, если поле это разрешает
func (uc *CommentUseCase) Vote(ctx context.Context, pageID int64, fieldName string, id int64, up bool) (*domain.Comment, error) {
	page, cf, err := uc.load(ctx, pageID, fieldName)
	if err != nil {
		return nil, err
	}

	field := cf.Field()
	if !field.UseVotes || (!up && !field.UseDownvotes) {
		return nil, fmt.Errorf("%w: field %q", domain.ErrVotingDisabled, field.Name)
	}

	comment, err := pageComment(page, cf, id)
	if err != nil {
		return nil, err
	}

	if err := cf.Vote(ctx, page, comment, up); err != nil {
		return nil, fmt.Errorf("failed to vote: %w", err)
	}

	uc.metrics.ObserveVote(field.Name, up)
	return comment, nil
}

// List ищет комментарии поля по фильтру
func (uc *CommentUseCase) List(ctx context.Context, fieldName string, filter domain.CommentFilter) (domain.CommentList, error) {
	cf, err := uc.Field(ctx, fieldName)
	if err != nil {
		return nil, err
	}

	comments, err := cf.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	return comments, nil
}

// Count возвращает количество комментариев поля по фильтру
func (uc *CommentUseCase) Count(ctx context.Context, fieldName string, filter domain.CommentFilter) (int, error) {
	cf, err := uc.Field(ctx, fieldName)
	if err != nil {
		return 0, err
	}

	count, err := cf.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

// Thread возвращает опубликованные комментарии поля на странице в виде дерева.
// Ожидающие модерации, спам и удалённые комментарии не попадают в ответ.
func (uc *CommentUseCase) Thread(ctx context.Context, pageID int64, fieldName string) ([]domain.CommentTree, error) {
	page, cf, err := uc.load(ctx, pageID, fieldName)
	if err != nil {
		return nil, err
	}

	list, _ := page.Comments(cf.Field())
	return list.Published().Tree(), nil
}

// ByID получает комментарий страницы по ID
func (uc *CommentUseCase) ByID(ctx context.Context, pageID int64, fieldName string, id int64) (*domain.Comment, error) {
	page, cf, err := uc.load(ctx, pageID, fieldName)
	if err != nil {
		return nil, err
	}

	comment, err := cf.GetByID(ctx, page, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// ByCode получает комментарий страницы по коду
func (uc *CommentUseCase) ByCode(ctx context.Context, pageID int64, fieldName string, code string) (*domain.Comment, error) {
	page, cf, err := uc.load(ctx, pageID, fieldName)
	if err != nil {
		return nil, err
	}

	comment, err := cf.GetByCode(ctx, page, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}
