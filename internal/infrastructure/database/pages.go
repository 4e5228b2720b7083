package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oziev02/CommentField/internal/domain"
)

const fieldColumns = `id, name, max_depth, use_votes, use_downvotes, moderate, sort_newest`

// PageRepository реализует domain.PageRepository для PostgreSQL
type PageRepository struct {
	pool *pgxpool.Pool
}

// NewPageRepository создает новый экземпляр PageRepository
func NewPageRepository(pool *pgxpool.Pool) *PageRepository {
	return &PageRepository{pool: pool}
}

func scanField(row pgx.Row) (*domain.Field, error) {
	var f domain.Field
	err := row.Scan(&f.ID, &f.Name, &f.MaxDepth, &f.UseVotes, &f.UseDownvotes, &f.Moderate, &f.SortNewest)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FieldByName получает конфигурацию поля по имени
func (r *PageRepository) FieldByName(ctx context.Context, name string) (*domain.Field, error) {
	query := `SELECT ` + fieldColumns + ` FROM fields WHERE name = $1`

	field, err := scanField(r.pool.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}

	return field, nil
}

// PageByID загружает страницу, её поля и все коллекции комментариев
func (r *PageRepository) PageByID(ctx context.Context, id int64) (*domain.Page, error) {
	var title string
	err := r.pool.QueryRow(ctx, `SELECT title FROM pages WHERE id = $1`, id).Scan(&title)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	fields, err := r.pageFields(ctx, id)
	if err != nil {
		return nil, err
	}

	page := domain.NewPage(id, title, fields...)
	byID := make(map[int64]*domain.Field, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT `+commentColumns+` FROM comments WHERE page_id = $1 ORDER BY created_at, id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get page comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		// комментарии полей, снятых со страницы, не загружаются
		if f, ok := byID[c.FieldID]; ok {
			page.Append(f, c)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return page, nil
}

func (r *PageRepository) pageFields(ctx context.Context, pageID int64) ([]*domain.Field, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.id, f.name, f.max_depth, f.use_votes, f.use_downvotes, f.moderate, f.sort_newest
		FROM fields f
		INNER JOIN page_fields pf ON pf.field_id = f.id
		WHERE pf.page_id = $1
		ORDER BY f.id
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get page fields: %w", err)
	}
	defer rows.Close()

	var fields []*domain.Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return fields, nil
}

// CreateField сохраняет конфигурацию поля
func (r *PageRepository) CreateField(ctx context.Context, field *domain.Field) error {
	query := `
		INSERT INTO fields (name, max_depth, use_votes, use_downvotes, moderate, sort_newest)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		field.Name,
		field.MaxDepth,
		field.UseVotes,
		field.UseDownvotes,
		field.Moderate,
		field.SortNewest,
	).Scan(&field.ID)
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}

	return nil
}

// CreatePage создает страницу с указанными полями комментариев
func (r *PageRepository) CreatePage(ctx context.Context, title string, fields ...*domain.Field) (*domain.Page, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx, `INSERT INTO pages (title) VALUES ($1) RETURNING id`, title).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	for _, f := range fields {
		if _, err := tx.Exec(ctx, `INSERT INTO page_fields (page_id, field_id) VALUES ($1, $2)`, id, f.ID); err != nil {
			return nil, fmt.Errorf("failed to attach field %q: %w", f.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit page: %w", err)
	}

	return domain.NewPage(id, title, fields...), nil
}
