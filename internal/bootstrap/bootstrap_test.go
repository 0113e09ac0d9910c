package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fraud-alert-agent/internal/config"
	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/repository"
	"fraud-alert-agent/internal/seed"
	"fraud-alert-agent/internal/usecase"
)

const snapshot = `{"fraud_cases":[{"userName":"Alice","cardEnding":"4242","transactionName":"ABC Industry","transactionAmount":"$1,249.99","securityQuestion":"What is your favorite color?","securityAnswer":"blue"}]}`

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fraud_cases.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o600))
	return &config.Config{
		SeedFile:       path,
		SessionTTL:     time.Hour,
		MaxInputLength: 300,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_MemoryStoreWithFileSeed(t *testing.T) {
	cfg := memoryConfig(t)
	rt, err := Open(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	require.IsType(t, &repository.MemoryStore{}, rt.Store)
	require.Equal(t, seed.FileSource{Path: cfg.SeedFile}, rt.Source)

	res, err := rt.Seed(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)

	res, err = rt.Seed(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, res.AlreadySeeded)
}

func TestRuntime_CallServiceRunsAgainstSeededStore(t *testing.T) {
	rt, err := Open(context.Background(), memoryConfig(t), quietLogger())
	require.NoError(t, err)
	_, err = rt.Seed(context.Background(), nil)
	require.NoError(t, err)

	svc, err := rt.CallService()
	require.NoError(t, err)

	ctx := context.Background()
	for _, step := range []usecase.CallInput{
		{CallID: "call-1", Operation: usecase.OpLoadCase, Input: "alice"},
		{CallID: "call-1", Operation: usecase.OpAskQuestion},
		{CallID: "call-1", Operation: usecase.OpSubmitAnswer, Input: "Blue"},
		{CallID: "call-1", Operation: usecase.OpReadTransaction},
		{CallID: "call-1", Operation: usecase.OpRecordDisposition, Input: "yes, that was me"},
	} {
		_, err := svc.Handle(ctx, step)
		require.NoError(t, err, step.Operation)
	}

	fc, err := rt.Store.FindCase(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmedSafe, fc.Status)
}
