package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oziev02/CommentField/internal/domain"
	"github.com/oziev02/CommentField/internal/mocks"
	"github.com/oziev02/CommentField/internal/usecase"
)

type env struct {
	router   http.Handler
	pages    *mocks.PageRepository
	comments *mocks.CommentRepository
	field    *domain.Field
	page     *domain.Page
	a, b     *domain.Comment
}

func newEnv(t *testing.T) *env {
	t.Helper()

	field := &domain.Field{ID: 1, Name: "comments", MaxDepth: 1, UseVotes: true}
	page := domain.NewPage(10, "article", field)
	a := &domain.Comment{ID: 1, Status: domain.StatusApproved, Text: "first", Cite: "ann"}
	b := &domain.Comment{ID: 2, ParentID: 1, Status: domain.StatusApproved, Text: "reply", Cite: "bob"}
	page.Append(field, a, b)

	e := &env{
		pages:    &mocks.PageRepository{},
		comments: &mocks.CommentRepository{},
		field:    field,
		page:     page,
		a:        a,
		b:        b,
	}
	e.pages.On("FieldByName", mock.Anything, "comments").Return(field, nil).Maybe()
	e.pages.On("FieldByName", mock.Anything, mock.Anything).Return(nil, domain.ErrFieldNotFound).Maybe()
	e.pages.On("PageByID", mock.Anything, int64(10)).Return(page, nil).Maybe()
	e.pages.On("PageByID", mock.Anything, mock.Anything).Return(nil, domain.ErrPageNotFound).Maybe()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := usecase.NewCommentUseCase(e.pages, e.comments, logger, nil)
	e.router = NewRouter(uc, logger, nil)

	t.Cleanup(func() { e.comments.AssertExpectations(t) })
	return e
}

func (e *env) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHandler_Submit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		e := newEnv(t)
		e.comments.On("Create", mock.Anything, e.page, e.field, mock.AnythingOfType("*domain.Comment")).
			Run(func(args mock.Arguments) { args.Get(3).(*domain.Comment).ID = 3 }).
			Return(nil).Once()

		rec := e.do(t, http.MethodPost, "/pages/10/comments/comments", `{"parent_id":1,"text":"hi","cite":"eve"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decodeBody[CommentResponse](t, rec)
		assert.Equal(t, int64(3), resp.ID)
		assert.Equal(t, int64(1), resp.ParentID)
		assert.Equal(t, "approved", resp.Status)
	})

	t.Run("validation", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(t, http.MethodPost, "/pages/10/comments/comments", `{"text":"hi"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, "cite")
	})

	t.Run("malformed body", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(t, http.MethodPost, "/pages/10/comments/comments", `{`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("depth exceeded", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(t, http.MethodPost, "/pages/10/comments/comments", `{"parent_id":2,"text":"hi","cite":"eve"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, domain.ErrDepthExceeded.Error())
	})

	t.Run("invalid page id", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(t, http.MethodPost, "/pages/abc/comments/comments", `{"text":"hi","cite":"eve"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage failure hides details", func(t *testing.T) {
		e := newEnv(t)
		e.comments.On("Create", mock.Anything, e.page, e.field, mock.Anything).Return(errors.New("pq: deadlock")).Once()

		rec := e.do(t, http.MethodPost, "/pages/10/comments/comments", `{"text":"hi","cite":"eve"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decodeBody[ErrorResponse](t, rec).Error)
	})
}

func TestHandler_Thread(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/pages/10/comments/comments", "")
	require.Equal(t, http.StatusOK, rec.Code)

	trees := decodeBody[[]CommentTreeResponse](t, rec)
	require.Len(t, trees, 1)
	require.Equal(t, int64(1), trees[0].Comment.ID)
	require.Len(t, trees[0].Children, 1)

	rec = e.do(t, http.MethodGet, "/pages/99/comments/comments", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, http.MethodGet, "/pages/10/comments/unknown", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetAndCode(t *testing.T) {
	e := newEnv(t)
	e.comments.On("GetByID", mock.Anything, e.page, e.field, int64(2)).Return(e.b, nil).Once()
	e.comments.On("GetByCode", mock.Anything, e.page, e.field, "missing").Return(nil, domain.ErrCommentNotFound).Once()

	rec := e.do(t, http.MethodGet, "/pages/10/comments/comments/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "reply", decodeBody[CommentResponse](t, rec).Text)

	rec = e.do(t, http.MethodGet, "/pages/10/comments/comments/code/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Update(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		e := newEnv(t)
		e.comments.On("Update", mock.Anything, e.page, e.field, e.a, mock.MatchedBy(func(u domain.CommentUpdate) bool {
			return u.Status != nil && *u.Status == domain.StatusFeatured
		})).Run(func(args mock.Arguments) {
			args.Get(4).(domain.CommentUpdate).Apply(args.Get(3).(*domain.Comment))
		}).Return(nil).Once()

		rec := e.do(t, http.MethodPatch, "/pages/10/comments/comments/1", `{"status":"featured"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "featured", decodeBody[CommentResponse](t, rec).Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(t, http.MethodPatch, "/pages/10/comments/comments/1", `{"status":"hidden"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete status with live reply", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(t, http.MethodPatch, "/pages/10/comments/comments/1", `{"status":"delete"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, domain.ErrHasChildren.Error())
	})

	t.Run("empty patch", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(t, http.MethodPatch, "/pages/10/comments/comments/1", `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reparent into own reply", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(t, http.MethodPatch, "/pages/10/comments/comments/1", `{"parent_id":2}`)
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	e := newEnv(t)
	e.comments.On("Delete", mock.Anything, e.page, e.field, e.b, "spam wave").Return(nil).Once()

	rec := e.do(t, http.MethodDelete, "/pages/10/comments/comments/1", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodDelete, "/pages/10/comments/comments/2?notes=spam+wave", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(t, http.MethodDelete, "/pages/10/comments/comments/42", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Vote(t *testing.T) {
	e := newEnv(t)
	e.comments.On("Vote", mock.Anything, e.page, e.field, e.a, true).Run(func(args mock.Arguments) {
		args.Get(3).(*domain.Comment).Upvotes++
	}).Return(nil).Once()

	rec := e.do(t, http.MethodPost, "/pages/10/comments/comments/1/vote", `{"up":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, decodeBody[CommentResponse](t, rec).Upvotes)

	rec = e.do(t, http.MethodPost, "/pages/10/comments/comments/1/vote", `{"up":false}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/pages/10/comments/comments/1/vote", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ListAndCount(t *testing.T) {
	e := newEnv(t)
	status := domain.StatusApproved
	filter := domain.CommentFilter{PageID: 10, Status: &status, Page: 2, PageSize: 5}
	e.comments.On("Find", mock.Anything, e.field, filter).Return(domain.CommentList{e.a, e.b}, nil).Once()
	e.comments.On("Count", mock.Anything, e.field, filter).Return(7, nil).Twice()

	rec := e.do(t, http.MethodGet, "/fields/comments/comments?page_id=10&status=approved&page=2&page_size=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeBody[CommentsListResponse](t, rec)
	assert.Len(t, list.Comments, 2)
	assert.Equal(t, 7, list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 5, list.PageSize)

	rec = e.do(t, http.MethodGet, "/fields/comments/comments/count?page_id=10&status=approved&page=2&page_size=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, decodeBody[CountResponse](t, rec).Count)

	rec = e.do(t, http.MethodGet, "/fields/comments/comments?status=hidden", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/fields/comments/comments?parent=-1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Infrastructure(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodOptions, "/pages/10/comments/comments", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = e.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(usecase.NewCommentUseCase(e.pages, e.comments, logger, nil), logger, metrics)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil).WithContext(context.Background()))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "# metrics", rec.Body.String())
}

func TestRecoverMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RecoverMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
