package domain

import "errors"

// Sentinel ошибки доменного слоя
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrPageNotFound    = errors.New("page not found")
	ErrFieldNotFound   = errors.New("field not found")
	ErrEmptyContent    = errors.New("comment content cannot be empty")
	ErrInvalidStatus   = errors.New("invalid comment status")
	ErrNothingToUpdate = errors.New("nothing to update")
	ErrVotingDisabled  = errors.New("voting is disabled for this field")
)

// Причины отказа при проверке ветвления
var (
	ErrFieldMismatch      = errors.New("comments cannot move between fields")
	ErrSelfParent         = errors.New("comment cannot be its own parent")
	ErrThreadingDisabled  = errors.New("comment threading is disabled for this field")
	ErrParentNotOnPage    = errors.New("parent comment does not exist on this page")
	ErrDepthExceeded      = errors.New("parent comment exceeds maximum depth")
	ErrParentIsDescendant = errors.New("parent comment is a descendant of this comment")
	ErrFieldNotOnPage     = errors.New("page does not have this comments field")
	ErrHasChildren        = errors.New("comment has replies that are not deleted")
)

// IsNotFound проверяет, что ошибка означает отсутствие сущности
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrPageNotFound) ||
		errors.Is(err, ErrFieldNotFound)
}

// IsRejection проверяет, что ошибка является отказом проверки ветвления
func IsRejection(err error) bool {
	return errors.Is(err, ErrFieldMismatch) ||
		errors.Is(err, ErrSelfParent) ||
		errors.Is(err, ErrThreadingDisabled) ||
		errors.Is(err, ErrParentNotOnPage) ||
		errors.Is(err, ErrDepthExceeded) ||
		errors.Is(err, ErrParentIsDescendant) ||
		errors.Is(err, ErrFieldNotOnPage) ||
		errors.Is(err, ErrHasChildren)
}

// IsValidation проверяет, что ошибка вызвана некорректными входными данными
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyContent) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrNothingToUpdate)
}

// RejectionReason возвращает короткий код причины отказа для метрик и логов
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrFieldMismatch):
		return "field_mismatch"
	case errors.Is(err, ErrSelfParent):
		return "self_parent"
	case errors.Is(err, ErrThreadingDisabled):
		return "threading_disabled"
	case errors.Is(err, ErrParentNotOnPage):
		return "parent_not_on_page"
	case errors.Is(err, ErrDepthExceeded):
		return "depth_exceeded"
	case errors.Is(err, ErrParentIsDescendant):
		return "parent_is_descendant"
	case errors.Is(err, ErrFieldNotOnPage):
		return "field_not_on_page"
	case errors.Is(err, ErrHasChildren):
		return "has_children"
	default:
		return "other"
	}
}
