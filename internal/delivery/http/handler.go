package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/oziev02/CommentField/internal/domain"
	"github.com/oziev02/CommentField/internal/usecase"
)

// CommentHandler обрабатывает HTTP запросы для комментариев
type CommentHandler struct {
	useCase  *usecase.CommentUseCase
	validate *validator.Validate
}

// NewCommentHandler создает новый экземпляр CommentHandler
func NewCommentHandler(useCase *usecase.CommentUseCase) *CommentHandler {
	return &CommentHandler{
		useCase:  useCase,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateCommentRequest DTO для создания комментария
type CreateCommentRequest struct {
	ParentID int64  `json:"parent_id" validate:"gte=0"`
	Text     string `json:"text" validate:"required,max=10000"`
	Cite     string `json:"cite" validate:"required,max=128"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateCommentRequest DTO для изменения комментария
type UpdateCommentRequest struct {
	ParentID *int64  `json:"parent_id,omitempty" validate:"omitempty,gte=0"`
	Text     *string `json:"text,omitempty" validate:"omitempty,max=10000"`
	Cite     *string `json:"cite,omitempty" validate:"omitempty,max=128"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=spam pending approved featured delete"`
}

// VoteRequest DTO для голосования
type VoteRequest struct {
	Up *bool `json:"up" validate:"required"`
}

// CommentResponse DTO для ответа с комментарием
type CommentResponse struct {
	ID        int64  `json:"id"`
	PageID    int64  `json:"page_id"`
	ParentID  int64  `json:"parent_id"`
	Status    string `json:"status"`
	Text      string `json:"text"`
	Cite      string `json:"cite"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CommentTreeResponse DTO для ответа с деревом комментариев
type CommentTreeResponse struct {
	Comment  CommentResponse       `json:"comment"`
	Children []CommentTreeResponse `json:"children,omitempty"`
}

// CommentsListResponse DTO для списка комментариев с пагинацией
type CommentsListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CountResponse DTO для количества комментариев
type CountResponse struct {
	Count int `json:"count"`
}

// ErrorResponse DTO для ошибки
type ErrorResponse struct {
	Error string `json:"error"`
}

// Submit обрабатывает POST /pages/{pageID}/comments/{field}
func (h *CommentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathID(w, r, "pageID")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !h.decode(w, r, &req) {
		return
	}

	comment, err := h.useCase.Submit(r.Context(), usecase.SubmitInput{
		PageID:   pageID,
		Field:    chi.URLParam(r, "field"),
		ParentID: req.ParentID,
		Text:     req.Text,
		Cite:     req.Cite,
		Email:    req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// Thread обрабатывает GET /pages/{pageID}/comments/{field}
func (h *CommentHandler) Thread(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathID(w, r, "pageID")
	if !ok {
		return
	}

	trees, err := h.useCase.Thread(r.Context(), pageID, chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentTreeResponseList(trees))
}

// Get обрабатывает GET /pages/{pageID}/comments/{field}/{id}
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathID(w, r, "pageID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	comment, err := h.useCase.ByID(r.Context(), pageID, chi.URLParam(r, "field"), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// GetByCode обрабатывает GET /pages/{pageID}/comments/{field}/code/{code}
func (h *CommentHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathID(w, r, "pageID")
	if !ok {
		return
	}

	comment, err := h.useCase.ByCode(r.Context(), pageID, chi.URLParam(r, "field"), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// Update обрабатывает PATCH /pages/{pageID}/comments/{field}/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathID(w, r, "pageID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if !h.decode(w, r, &req) {
		return
	}

	in := usecase.UpdateInput{
		PageID:   pageID,
		Field:    chi.URLParam(r, "field"),
		ID:       id,
		Text:     req.Text,
		Cite:     req.Cite,
		Email:    req.Email,
		ParentID: req.ParentID,
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		in.Status = &status
	}

	comment, err := h.useCase.Update(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// Delete обрабатывает DELETE /pages/{pageID}/comments/{field}/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathID(w, r, "pageID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	notes := r.URL.Query().Get("notes")
	if err := h.useCase.Remove(r.Context(), pageID, chi.URLParam(r, "field"), id, notes); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Vote обрабатывает POST /pages/{pageID}/comments/{field}/{id}/vote
func (h *CommentHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathID(w, r, "pageID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req VoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	comment, err := h.useCase.Vote(r.Context(), pageID, chi.URLParam(r, "field"), id, *req.Up)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// List обрабатывает GET /fields/{field}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	field := chi.URLParam(r, "field")

	comments, err := h.useCase.List(r.Context(), field, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	total, err := h.useCase.Count(r.Context(), field, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	paging := filter.Normalize(false)
	response := CommentsListResponse{
		Comments: make([]CommentResponse, 0, len(comments)),
		Total:    total,
		Page:     paging.Page,
		PageSize: paging.PageSize,
	}
	for _, c := range comments {
		response.Comments = append(response.Comments, toCommentResponse(c))
	}

	writeJSON(w, http.StatusOK, response)
}

// Count обрабатывает GET /fields/{field}/comments/count
func (h *CommentHandler) Count(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	total, err := h.useCase.Count(r.Context(), chi.URLParam(r, "field"), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CountResponse{Count: total})
}

// parseFilter разбирает параметры фильтрации из query string
func parseFilter(w http.ResponseWriter, r *http.Request) (domain.CommentFilter, bool) {
	q := r.URL.Query()
	filter := domain.CommentFilter{
		Search: q.Get("search"),
		SortBy: q.Get("sort_by"),
		Order:  q.Get("order"),
	}

	if v := q.Get("page_id"); v != "" {
		pageID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || pageID <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid page_id"})
			return filter, false
		}
		filter.PageID = pageID
	}

	if v := q.Get("parent"); v != "" {
		parentID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parentID < 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid parent"})
			return filter, false
		}
		filter.ParentID = &parentID
	}

	if v := q.Get("status"); v != "" {
		status, err := domain.ParseStatus(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return filter, false
		}
		filter.Status = &status
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(q.Get("page_size")); err == nil && pageSize > 0 && pageSize <= 500 {
		filter.PageSize = pageSize
	}

	return filter, true
}

// decode читает JSON тело запроса и валидирует его
func (h *CommentHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationMessage(ve)})
			return false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return false
	}

	return true
}

func validationMessage(ve validator.ValidationErrors) string {
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, strings.ToLower(fe.Field())+": failed "+fe.Tag())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// pathID читает положительный числовой параметр пути
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// statusFor сопоставляет доменную ошибку с HTTP статусом
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFieldNotOnPage):
		return http.StatusNotFound
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsRejection(err):
		return http.StatusConflict
	case errors.Is(err, domain.ErrVotingDisabled):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// toCommentResponse преобразует domain.Comment в CommentResponse
func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PageID:    c.PageID,
		ParentID:  c.ParentID,
		Status:    c.Status.String(),
		Text:      c.Text,
		Cite:      c.Cite,
		Upvotes:   c.Upvotes,
		Downvotes: c.Downvotes,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: c.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toCommentTreeResponse преобразует domain.CommentTree в CommentTreeResponse
func toCommentTreeResponse(tree domain.CommentTree) CommentTreeResponse {
	response := CommentTreeResponse{
		Comment:  toCommentResponse(&tree.Comment),
		Children: make([]CommentTreeResponse, 0, len(tree.Children)),
	}

	for _, child := range tree.Children {
		response.Children = append(response.Children, toCommentTreeResponse(child))
	}

	return response
}

// toCommentTreeResponseList преобразует список domain.CommentTree в список CommentTreeResponse
func toCommentTreeResponseList(trees []domain.CommentTree) []CommentTreeResponse {
	responses := make([]CommentTreeResponse, 0, len(trees))
	for _, tree := range trees {
		responses = append(responses, toCommentTreeResponse(tree))
	}
	return responses
}
