// Package mocks содержит testify-моки портов доменного слоя.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oziev02/CommentField/internal/domain"
)

// CommentRepository мок domain.CommentRepository
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, page *domain.Page, field *domain.Field, comment *domain.Comment) error {
	args := m.Called(ctx, page, field, comment)
	return args.Error(0)
}

func (m *CommentRepository) Find(ctx context.Context, field *domain.Field, filter domain.CommentFilter) (domain.CommentList, error) {
	args := m.Called(ctx, field, filter)
	list, _ := args.Get(0).(domain.CommentList)
	return list, args.Error(1)
}

func (m *CommentRepository) Count(ctx context.Context, field *domain.Field, filter domain.CommentFilter) (int, error) {
	args := m.Called(ctx, field, filter)
	return args.Int(0), args.Error(1)
}

func (m *CommentRepository) GetByCode(ctx context.Context, page *domain.Page, field *domain.Field, code string) (*domain.Comment, error) {
	args := m.Called(ctx, page, field, code)
	comment, _ := args.Get(0).(*domain.Comment)
	return comment, args.Error(1)
}

func (m *CommentRepository) GetByID(ctx context.Context, page *domain.Page, field *domain.Field, id int64) (*domain.Comment, error) {
	args := m.Called(ctx, page, field, id)
	comment, _ := args.Get(0).(*domain.Comment)
	return comment, args.Error(1)
}

func (m *CommentRepository) Update(ctx context.Context, page *domain.Page, field *domain.Field, comment *domain.Comment, update domain.CommentUpdate) error {
	args := m.Called(ctx, page, field, comment, update)
	return args.Error(0)
}

func (m *CommentRepository) Delete(ctx context.Context, page *domain.Page, field *domain.Field, comment *domain.Comment, notes string) error {
	args := m.Called(ctx, page, field, comment, notes)
	return args.Error(0)
}

func (m *CommentRepository) Vote(ctx context.Context, page *domain.Page, field *domain.Field, comment *domain.Comment, up bool) error {
	args := m.Called(ctx, page, field, comment, up)
	return args.Error(0)
}

// PageRepository мок domain.PageRepository
type PageRepository struct {
	mock.Mock
}

func (m *PageRepository) PageByID(ctx context.Context, id int64) (*domain.Page, error) {
	args := m.Called(ctx, id)
	page, _ := args.Get(0).(*domain.Page)
	return page, args.Error(1)
}

func (m *PageRepository) FieldByName(ctx context.Context, name string) (*domain.Field, error) {
	args := m.Called(ctx, name)
	field, _ := args.Get(0).(*domain.Field)
	return field, args.Error(1)
}
