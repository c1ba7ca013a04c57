package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	authMocks "github.com/allisson/tokenvault/internal/auth/usecase/mocks"
)

func TestRunCreateClient(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clientID := uuid.New()
	output := &authDomain.CreateClientOutput{ID: clientID, PlainSecret: "test-secret"}

	t.Run("non-interactive-text", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		mockUseCase.On("Create", ctx, &authDomain.CreateClientInput{Name: "billing", IsActive: true}).
			Return(output, nil)

		var out bytes.Buffer
		err := RunCreateClient(ctx, mockUseCase, logger, "billing", true, "text", IOTuple{Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), clientID.String())
		require.Contains(t, out.String(), "test-secret")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("interactive-json", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		mockUseCase.On("Create", ctx, &authDomain.CreateClientInput{Name: "scanner", IsActive: false}).
			Return(output, nil)

		var out bytes.Buffer
		err := RunCreateClient(ctx, mockUseCase, logger, "", false, "json", IOTuple{
			Reader: strings.NewReader("  scanner \n"),
			Writer: &out,
		})
		require.NoError(t, err)

		jsonStart := strings.Index(out.String(), "{")
		require.GreaterOrEqual(t, jsonStart, 0)

		var result map[string]string
		require.NoError(t, json.Unmarshal([]byte(out.String()[jsonStart:]), &result))
		require.Equal(t, clientID.String(), result["client_id"])
		require.Equal(t, "test-secret", result["client_secret"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("interactive-empty-name", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}

		err := RunCreateClient(ctx, mockUseCase, logger, "", true, "text", IOTuple{
			Reader: strings.NewReader("\n"),
			Writer: io.Discard,
		})
		require.ErrorContains(t, err, "client name is required")
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		mockUseCase.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down"))

		err := RunCreateClient(ctx, mockUseCase, logger, "billing", true, "text", IOTuple{Writer: io.Discard})
		require.ErrorContains(t, err, "failed to create client")
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunCreateClient(ctx, &authMocks.MockClientUseCase{}, logger, "billing", true, "xml",
			IOTuple{Writer: io.Discard})
		require.ErrorContains(t, err, "invalid format")
	})
}
