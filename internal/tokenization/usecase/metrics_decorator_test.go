package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	metricsMocks "github.com/allisson/tokenvault/internal/metrics/mocks"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
	"github.com/allisson/tokenvault/internal/tokenization/usecase/mocks"
)

func TestTokenizationUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV7())
	fields := tokenizationDomain.Fields{"a": "b"}

	t.Run("Create", func(t *testing.T) {
		next := &mocks.MockTokenizationUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		next.On("Create", ctx, owner, fields, 1).Return(&tokenizationDomain.Token{Token: "h"}, nil)
		m.ExpectOperation("tokenization", "create", "success")

		token, err := NewTokenizationUseCaseWithMetrics(next, m).Create(ctx, owner, fields, 1)
		assert.NoError(t, err)
		assert.Equal(t, "h", token.Token)
		m.AssertExpectations(t)
	})

	t.Run("RetrieveError", func(t *testing.T) {
		next := &mocks.MockTokenizationUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		next.On("Retrieve", ctx, owner, "h").Return(nil, tokenizationDomain.ErrTokenNotFound)
		m.ExpectOperation("tokenization", "retrieve", "error")

		_, err := NewTokenizationUseCaseWithMetrics(next, m).Retrieve(ctx, owner, "h")
		assert.ErrorIs(t, err, tokenizationDomain.ErrTokenNotFound)
		m.AssertExpectations(t)
	})

	t.Run("GetInfo", func(t *testing.T) {
		next := &mocks.MockTokenizationUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		next.On("GetInfo", ctx, "h").Return(&tokenizationDomain.Info{Token: "h"}, nil)
		m.ExpectOperation("tokenization", "get_info", "success")

		_, err := NewTokenizationUseCaseWithMetrics(next, m).GetInfo(ctx, "h")
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("ExtendAndRevoke", func(t *testing.T) {
		next := &mocks.MockTokenizationUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		next.On("Extend", ctx, owner, "h", 2).Return(&tokenizationDomain.Token{}, nil)
		next.On("Revoke", ctx, owner, "h").Return(nil, errors.New("boom"))
		m.ExpectOperation("tokenization", "extend", "success")
		m.ExpectOperation("tokenization", "revoke", "error")

		decorated := NewTokenizationUseCaseWithMetrics(next, m)
		_, err := decorated.Extend(ctx, owner, "h", 2)
		assert.NoError(t, err)
		_, err = decorated.Revoke(ctx, owner, "h")
		assert.Error(t, err)
		m.AssertExpectations(t)
	})

	t.Run("CreateBulk", func(t *testing.T) {
		next := &mocks.MockTokenizationUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		items := []tokenizationDomain.BulkItem{{Fields: fields}}
		next.On("CreateBulk", ctx, owner, items).Return(&tokenizationDomain.BulkOutput{
			Summary: tokenizationDomain.BulkSummary{Total: 6, Created: 3, Duplicates: 2, Failed: 1},
		}, nil)
		m.ExpectOperation("tokenization", "create_bulk", "success")
		m.On("RecordItems", mock.Anything, "tokenization", "created", int64(3)).Once()
		m.On("RecordItems", mock.Anything, "tokenization", "duplicate", int64(2)).Once()
		m.On("RecordItems", mock.Anything, "tokenization", "failed", int64(1)).Once()

		_, err := NewTokenizationUseCaseWithMetrics(next, m).CreateBulk(ctx, owner, items)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
}
