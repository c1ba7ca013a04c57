package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	"github.com/allisson/tokenvault/internal/audit/usecase/mocks"
	metricsMocks "github.com/allisson/tokenvault/internal/metrics/mocks"
)

func TestAuditUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV7())
	from := time.Now().Add(-time.Hour)
	to := time.Now()

	t.Run("Record", func(t *testing.T) {
		next := &mocks.MockAuditUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		next.On("Record", ctx, ownerID, auditDomain.ActionCreate, mock.Anything).Return(nil)
		m.ExpectOperation("audit", "record", "success")

		err := NewAuditUseCaseWithMetrics(next, m).Record(ctx, ownerID, auditDomain.ActionCreate, nil)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("ListError", func(t *testing.T) {
		next := &mocks.MockAuditUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		next.On("List", ctx, mock.Anything).Return(nil, errors.New("boom"))
		m.ExpectOperation("audit", "list", "error")

		_, err := NewAuditUseCaseWithMetrics(next, m).List(ctx, auditDomain.Filter{})
		assert.Error(t, err)
		m.AssertExpectations(t)
	})

	t.Run("CountByAction", func(t *testing.T) {
		next := &mocks.MockAuditUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		next.On("CountByAction", ctx, &ownerID, &from, &to).Return(map[auditDomain.Action]int64{}, nil)
		m.ExpectOperation("audit", "count_by_action", "success")

		_, err := NewAuditUseCaseWithMetrics(next, m).CountByAction(ctx, &ownerID, &from, &to)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("VerifyBatch", func(t *testing.T) {
		next := &mocks.MockAuditUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		next.On("VerifyBatch", ctx, from, to).Return(&auditDomain.VerificationReport{}, nil)
		m.ExpectOperation("audit", "verify_batch", "success")

		report, err := NewAuditUseCaseWithMetrics(next, m).VerifyBatch(ctx, from, to)
		assert.NoError(t, err)
		assert.NotNil(t, report)
		m.AssertExpectations(t)
	})
}
