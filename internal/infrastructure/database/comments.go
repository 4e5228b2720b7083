package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oziev02/CommentField/internal/domain"
)

const commentColumns = `id, page_id, field_id, parent_id, status, text, cite, email, code, upvotes, downvotes, created_at, updated_at`

// CommentRepository реализует domain.CommentRepository для PostgreSQL
type CommentRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewCommentRepository создает новый экземпляр CommentRepository
func NewCommentRepository(pool *pgxpool.Pool, logger *slog.Logger) *CommentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentRepository{pool: pool, logger: logger}
}

// scanComment читает строку с колонками commentColumns
func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	var status int

	err := row.Scan(
		&c.ID,
		&c.PageID,
		&c.FieldID,
		&c.ParentID,
		&status,
		&c.Text,
		&c.Cite,
		&c.Email,
		&c.Code,
		&c.Upvotes,
		&c.Downvotes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = domain.CommentStatus(status)
	return &c, nil
}

// Create сохраняет новый комментарий и добавляет его в коллекцию страницы
func (r *CommentRepository) Create(ctx context.Context, page *domain.Page, field *domain.Field, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (page_id, field_id, parent_id, status, text, cite, email, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, created_at, updated_at
	`

	if comment.Code == "" {
		comment.Code = uuid.NewString()
	}

	err := r.pool.QueryRow(
		ctx,
		query,
		page.ID,
		field.ID,
		comment.ParentID,
		int(comment.Status),
		comment.Text,
		comment.Cite,
		comment.Email,
		comment.Code,
		time.Now().UTC(),
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	page.Append(field, comment)
	return nil
}

// where собирает условие выборки по фильтру
func where(field *domain.Field, filter domain.CommentFilter) (string, []any) {
	conds := []string{"field_id = $1"}
	args := []any{field.ID}

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.PageID != 0 {
		add("page_id = $%d", filter.PageID)
	}
	if filter.ParentID != nil {
		add("parent_id = $%d", *filter.ParentID)
	}
	if filter.Status != nil {
		add("status = $%d", int(*filter.Status))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		add(`text ILIKE $%d ESCAPE '\'`, "%"+likeEscaper.Replace(search)+"%")
	}

	return strings.Join(conds, " AND "), args
}

// likeEscaper экранирует спецсимволы шаблона LIKE
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Find ищет комментарии поля с сортировкой и пагинацией
func (r *CommentRepository) Find(ctx context.Context, field *domain.Field, filter domain.CommentFilter) (domain.CommentList, error) {
	filter = filter.Normalize(field.SortNewest)
	cond, args := where(field, filter)

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := fmt.Sprintf(
		`SELECT %s FROM comments WHERE %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		commentColumns, cond, filter.SortBy, filter.Order, filter.Order, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	defer rows.Close()

	comments := make(domain.CommentList, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return comments, nil
}

// Count возвращает количество комментариев поля по фильтру
func (r *CommentRepository) Count(ctx context.Context, field *domain.Field, filter domain.CommentFilter) (int, error) {
	cond, args := where(field, filter)

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE `+cond, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}

	return count, nil
}

func (r *CommentRepository) getOne(ctx context.Context, page *domain.Page, field *domain.Field, column string, value any) (*domain.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM comments WHERE %s = $1 AND field_id = $2`, commentColumns, column)
	args := []any{value, field.ID}
	if page != nil {
		query += ` AND page_id = $3`
		args = append(args, page.ID)
	}

	comment, err := scanComment(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	if page != nil {
		// экземпляр из коллекции страницы уже знает своих соседей
		if list, ok := page.Comments(field); ok {
			if loaded := list.Get(comment.ID); loaded != nil {
				return loaded, nil
			}
		}
		comment.SetPage(page)
	}

	return comment, nil
}

// GetByCode получает комментарий по коду
func (r *CommentRepository) GetByCode(ctx context.Context, page *domain.Page, field *domain.Field, code string) (*domain.Comment, error) {
	if code == "" {
		return nil, domain.ErrCommentNotFound
	}
	return r.getOne(ctx, page, field, "code", code)
}

// GetByID получает комментарий по ID
func (r *CommentRepository) GetByID(ctx context.Context, page *domain.Page, field *domain.Field, id int64) (*domain.Comment, error) {
	if id <= 0 {
		return nil, domain.ErrCommentNotFound
	}
	return r.getOne(ctx, page, field, "id", id)
}

// Update сохраняет заданные свойства и переносит их на comment
func (r *CommentRepository) Update(ctx context.Context, page *domain.Page, field *domain.Field, comment *domain.Comment, update domain.CommentUpdate) error {
	if update.IsEmpty() {
		return domain.ErrNothingToUpdate
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Text != nil {
		set("text", *update.Text)
	}
	if update.Cite != nil {
		set("cite", *update.Cite)
	}
	if update.Email != nil {
		set("email", *update.Email)
	}
	if update.Status != nil {
		set("status", int(*update.Status))
	}
	if update.ParentID != nil {
		set("parent_id", *update.ParentID)
	}
	set("updated_at", time.Now().UTC())

	args = append(args, comment.ID, field.ID, page.ID)
	query := fmt.Sprintf(
		`UPDATE comments SET %s WHERE id = $%d AND field_id = $%d AND page_id = $%d RETURNING updated_at`,
		strings.Join(sets, ", "), len(args)-2, len(args)-1, len(args),
	)

	var updatedAt time.Time
	err := r.pool.QueryRow(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	update.Apply(comment)
	comment.UpdatedAt = updatedAt
	return nil
}

// Delete помечает комментарий удалённым; строка остаётся, чтобы ответы
// сохраняли родителя в дереве. notes попадают в журнал.
func (r *CommentRepository) Delete(ctx context.Context, page *domain.Page, field *domain.Field, comment *domain.Comment, notes string) error {
	query := `
		UPDATE comments SET status = $1, updated_at = $2
		WHERE id = $3 AND field_id = $4 AND page_id = $5 AND status < $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		int(domain.StatusDelete),
		time.Now().UTC(),
		comment.ID,
		field.ID,
		page.ID,
	).Scan(&comment.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	r.logger.Info(
		"comment deleted",
		"field", field.Name,
		"page_id", page.ID,
		"comment_id", comment.ID,
		"notes", notes,
	)

	comment.Status = domain.StatusDelete
	return nil
}

// Vote увеличивает счётчик голосов и обновляет значения на comment
func (r *CommentRepository) Vote(ctx context.Context, page *domain.Page, field *domain.Field, comment *domain.Comment, up bool) error {
	column := "downvotes"
	if up {
		column = "upvotes"
	}

	query := fmt.Sprintf(`
		UPDATE comments SET %[1]s = %[1]s + 1
		WHERE id = $1 AND field_id = $2 AND page_id = $3
		RETURNING upvotes, downvotes
	`, column)

	err := r.pool.QueryRow(ctx, query, comment.ID, field.ID, page.ID).Scan(&comment.Upvotes, &comment.Downvotes)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to vote comment: %w", err)
	}

	return nil
}
