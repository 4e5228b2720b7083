package usecase

import (
	"fmt"
	"log/slog"

	"github.com/oziev02/CommentField/internal/domain"
)

// Операции валидатора для отчётов и метрик
const (
	OpParent = "parent"
	OpPage   = "page"
	OpDelete = "delete"
)

// Reporter принимает человекочитаемые причины отказа.
// На результат проверки не влияет.
type Reporter interface {
	Report(op string, comment *domain.Comment, reason error)
}

// ReporterFunc адаптер функции к Reporter
type ReporterFunc func(op string, comment *domain.Comment, reason error)

// Report вызывает f
func (f ReporterFunc) Report(op string, comment *domain.Comment, reason error) {
	f(op, comment, reason)
}

// NopReporter игнорирует все отчёты
var NopReporter Reporter = ReporterFunc(func(string, *domain.Comment, error) {})

// LogReporter пишет причины отказа в лог с уровнем warn
func LogReporter(logger *slog.Logger) Reporter {
	return ReporterFunc(func(op string, comment *domain.Comment, reason error) {
		logger.Warn(
			"comment rejected",
			"op", op,
			"comment_id", comment.ID,
			"parent_id", comment.ParentID,
			"reason", reason.Error(),
		)
	})
}

// MultiReporter передаёт отчёт каждому из reporters по очереди
func MultiReporter(reporters ...Reporter) Reporter {
	return ReporterFunc(func(op string, comment *domain.Comment, reason error) {
		for _, r := range reporters {
			if r != nil {
				r.Report(op, comment, reason)
			}
		}
	})
}

// ThreadValidator проверяет допустимость ветвления комментариев одного поля.
// Не хранит изменяемого состояния и не выполняет ввод-вывод: все данные
// должны быть загружены вызывающим кодом.
type ThreadValidator struct {
	field    *domain.Field
	reporter Reporter
}

// NewThreadValidator создает валидатор для поля
func NewThreadValidator(field *domain.Field, reporter Reporter) *ThreadValidator {
	if reporter == nil {
		reporter = NopReporter
	}
	return &ThreadValidator{field: field, reporter: reporter}
}

// Field возвращает поле валидатора
func (v *ThreadValidator) Field() *domain.Field {
	return v.field
}

// MaxDepth возвращает настроенную глубину ветвления (0 выключает ветвление)
func (v *ThreadValidator) MaxDepth() int {
	if v.field.MaxDepth < 0 {
		return 0
	}
	return v.field.MaxDepth
}

// fieldOf возвращает поле комментария, а для непривязанного комментария поле валидатора
func (v *ThreadValidator) fieldOf(c *domain.Comment) *domain.Field {
	if c.FieldID == 0 {
		return v.field
	}
	if c.FieldID == v.field.ID {
		return v.field
	}
	return &domain.Field{ID: c.FieldID}
}

// CheckParent проверяет, может ли parent стать родителем c. nil означает корень.
func (v *ThreadValidator) CheckParent(c, parent *domain.Comment) error {
	if parent == nil {
		return v.CheckParentID(c, 0)
	}
	return v.CheckParentID(c, parent.ID)
}

// CheckParentID проверяет, может ли комментарий parentID стать родителем c.
// Возвращает nil или первую нарушенную причину.
func (v *ThreadValidator) CheckParentID(c *domain.Comment, parentID int64) error {
	if parentID == 0 {
		return nil
	}

	if !v.fieldOf(c).Is(v.field) {
		return fmt.Errorf("%w: comment field %d, validator field %d", domain.ErrFieldMismatch, c.FieldID, v.field.ID)
	}

	if parentID == c.ID {
		return fmt.Errorf("%w: comment %d", domain.ErrSelfParent, c.ID)
	}

	maxDepth := v.MaxDepth()
	if maxDepth == 0 {
		return fmt.Errorf("%w: field %q", domain.ErrThreadingDisabled, v.field.Name)
	}

	var parent *domain.Comment
	if list, ok := c.Page().Comments(v.field); ok {
		parent = list.Get(parentID)
	}
	if parent == nil {
		return fmt.Errorf("%w: parent %d", domain.ErrParentNotOnPage, parentID)
	}

	if depth := parent.Depth(); depth >= maxDepth {
		return fmt.Errorf("%w: parent %d depth %d, max %d", domain.ErrDepthExceeded, parentID, depth, maxDepth)
	}

	if c.HasChild(parentID, true) {
		return fmt.Errorf("%w: parent %d", domain.ErrParentIsDescendant, parentID)
	}

	return nil
}

// AllowParent булева форма CheckParent; при verbose причина отказа уходит в Reporter
func (v *ThreadValidator) AllowParent(c, parent *domain.Comment, verbose bool) bool {
	return v.allow(OpParent, c, v.CheckParent(c, parent), verbose)
}

// AllowParentID булева форма CheckParentID
func (v *ThreadValidator) AllowParentID(c *domain.Comment, parentID int64, verbose bool) bool {
	return v.allow(OpParent, c, v.CheckParentID(c, parentID), verbose)
}

// CheckPage проверяет, может ли комментарий быть прикреплён к странице
func (v *ThreadValidator) CheckPage(c *domain.Comment, page *domain.Page) error {
	field := v.fieldOf(c)
	if !page.HasField(field) {
		return fmt.Errorf("%w: field %d", domain.ErrFieldNotOnPage, field.ID)
	}

	if c.PageID != 0 && c.PageID == page.ID {
		return nil
	}

	if c.ParentID != 0 {
		list, ok := page.Comments(field)
		if !ok || !list.Has(c.ParentID) {
			return fmt.Errorf("%w: parent %d, page %d", domain.ErrParentNotOnPage, c.ParentID, page.ID)
		}
	}

	return nil
}

// AllowPage булева форма CheckPage
func (v *ThreadValidator) AllowPage(c *domain.Comment, page *domain.Page, verbose bool) bool {
	return v.allow(OpPage, c, v.CheckPage(c, page), verbose)
}

// CheckDeletable запрещает удаление комментария с живыми сохранёнными ответами
func (v *ThreadValidator) CheckDeletable(c *domain.Comment) error {
	for _, child := range c.Children() {
		if child.IsPersisted() && child.Status < domain.StatusDelete {
			return fmt.Errorf("%w: comment %d, reply %d", domain.ErrHasChildren, c.ID, child.ID)
		}
	}
	return nil
}

// Deletable булева форма CheckDeletable
func (v *ThreadValidator) Deletable(c *domain.Comment) bool {
	return v.CheckDeletable(c) == nil
}

func (v *ThreadValidator) allow(op string, c *domain.Comment, err error, verbose bool) bool {
	if err == nil {
		return true
	}
	if verbose {
		v.reporter.Report(op, c, err)
	}
	return false
}
