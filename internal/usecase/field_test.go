package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oziev02/CommentField/internal/domain"
	"github.com/oziev02/CommentField/internal/mocks"
)

func TestCommentField_Delegates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3)
	repo := &mocks.CommentRepository{}
	cf := NewCommentField(f.field, repo, nil)
	update := domain.CommentUpdate{}
	boom := errors.New("boom")

	repo.On("Find", ctx, f.field, domain.CommentFilter{PageID: 10}).Return(domain.CommentList{f.a}, nil).Once()
	repo.On("Count", ctx, f.field, domain.CommentFilter{}).Return(2, nil).Once()
	repo.On("GetByCode", ctx, f.page, f.field, "code").Return(f.a, nil).Once()
	repo.On("GetByID", ctx, f.page, f.field, int64(2)).Return(f.b, nil).Once()
	repo.On("Create", ctx, f.page, f.field, f.a).Return(nil).Once()
	repo.On("Update", ctx, f.page, f.field, f.a, update).Return(boom).Once()
	repo.On("Delete", ctx, f.page, f.field, f.b, "notes").Return(nil).Once()
	repo.On("Vote", ctx, f.page, f.field, f.b, false).Return(nil).Once()

	list, err := cf.Find(ctx, domain.CommentFilter{PageID: 10})
	require.NoError(t, err)
	require.Equal(t, domain.CommentList{f.a}, list)

	count, err := cf.Count(ctx, domain.CommentFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	got, err := cf.GetByCode(ctx, f.page, "code")
	require.NoError(t, err)
	require.Same(t, f.a, got)

	got, err = cf.GetByID(ctx, f.page, 2)
	require.NoError(t, err)
	require.Same(t, f.b, got)

	require.NoError(t, cf.Create(ctx, f.page, f.a))
	require.ErrorIs(t, cf.Update(ctx, f.page, f.a, update), boom)
	require.NoError(t, cf.Delete(ctx, f.page, f.b, "notes"))
	require.NoError(t, cf.Vote(ctx, f.page, f.b, false))

	repo.AssertExpectations(t)
}

func TestCommentField_Predicates(t *testing.T) {
	f := newFixture(2)
	repo := &mocks.CommentRepository{}
	rec := &recorder{}
	cf := NewCommentField(f.field, repo, rec)

	require.Same(t, f.field, cf.Field())
	require.Equal(t, 2, cf.MaxDepth())

	draft := f.draft()
	require.True(t, cf.AllowParent(draft, f.b, true))
	require.True(t, cf.AllowParentID(draft, f.a.ID, true))
	require.False(t, cf.AllowParentID(draft, 50, true))
	require.True(t, cf.AllowPage(draft, f.page, false))
	require.False(t, cf.Deletable(f.a))
	require.True(t, cf.Deletable(f.b))
	require.Len(t, rec.reports, 1)

	repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}
