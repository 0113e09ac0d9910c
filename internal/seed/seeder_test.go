package seed

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/repository"
)

type staticSource struct {
	raw    string
	format Format
	err    error
	loads  int
}

func (s *staticSource) Load(context.Context) ([]byte, Format, error) {
	s.loads++
	return []byte(s.raw), s.format, s.err
}

type brokenTarget struct {
	countErr, insertErr error
}

func (b brokenTarget) CountCases(context.Context) (int, error) { return 0, b.countErr }

func (b brokenTarget) InsertCase(context.Context, domain.Case) (bool, error) {
	return false, b.insertErr
}

type fakeParams struct {
	value string
	err   error
	name  string
}

func (f *fakeParams) GetParameter(_ context.Context, name string) (string, error) {
	f.name = name
	return f.value, f.err
}

func newTestSeeder(t *testing.T, target Target, src Source) (*Seeder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s, err := NewSeeder(target, src, slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return s, &buf
}

func TestNewSeeder_ValidatesDependencies(t *testing.T) {
	_, err := NewSeeder(nil, &staticSource{}, nil)
	require.Error(t, err)
	_, err = NewSeeder(repository.NewMemoryStore(), nil, nil)
	require.Error(t, err)
}

func TestEnsure_SeedsEmptyStore(t *testing.T) {
	store := repository.NewMemoryStore()
	s, logs := newTestSeeder(t, store, &staticSource{raw: jsonSnapshot, format: FormatJSON})

	res, err := s.Ensure(context.Background())
	require.NoError(t, err)
	require.Equal(t, Result{Inserted: 2, Skipped: 4}, res)

	bob, err := store.FindCase(context.Background(), "BOB")
	require.NoError(t, err)
	require.Equal(t, "2026-03-01T09:30:00Z", bob.LastUpdated)
	alice, err := store.FindCase(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "2026-02-28T21:16:00Z", alice.LastUpdated)

	require.Contains(t, logs.String(), `"event":"seed_skipped_row"`)
	require.Contains(t, logs.String(), `"event":"seed_loaded"`)
}

func TestEnsure_SkipsPopulatedStore(t *testing.T) {
	store := repository.NewMemoryStore()
	_, err := store.InsertCase(context.Background(), domain.Case{CustomerKey: "zed", Status: domain.StatusConfirmedSafe})
	require.NoError(t, err)
	src := &staticSource{raw: jsonSnapshot, format: FormatJSON}
	s, _ := newTestSeeder(t, store, src)

	res, err := s.Ensure(context.Background())
	require.NoError(t, err)
	require.True(t, res.AlreadySeeded)
	require.Zero(t, src.loads)

	n, err := store.CountCases(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestEnsure_UnavailableSnapshotLeavesStoreEmpty(t *testing.T) {
	for name, src := range map[string]*staticSource{
		"missing":   {err: ErrNoSnapshot},
		"malformed": {raw: `{"fraud_cases":`, format: FormatJSON},
	} {
		t.Run(name, func(t *testing.T) {
			store := repository.NewMemoryStore()
			s, logs := newTestSeeder(t, store, src)

			res, err := s.Ensure(context.Background())
			require.NoError(t, err)
			require.Equal(t, Result{}, res)
			require.Contains(t, logs.String(), `"event":"seed_unavailable"`)

			n, err := store.CountCases(context.Background())
			require.NoError(t, err)
			require.Zero(t, n)
		})
	}
}

func TestEnsure_StoreErrors(t *testing.T) {
	s, _ := newTestSeeder(t, brokenTarget{countErr: errors.New("throttled")}, &staticSource{})
	_, err := s.Ensure(context.Background())
	require.ErrorContains(t, err, "count cases")

	s, _ = newTestSeeder(t, brokenTarget{insertErr: errors.New("throttled")}, &staticSource{raw: jsonSnapshot, format: FormatJSON})
	_, err = s.Ensure(context.Background())
	require.ErrorContains(t, err, "insert")
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fraud_cases: []\n"), 0o600))

	raw, format, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, "fraud_cases: []\n", string(raw))

	_, _, err = FileSource{Path: filepath.Join(dir, "absent.json")}.Load(context.Background())
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestParameterSource(t *testing.T) {
	params := &fakeParams{value: "  [ ]"}
	raw, format, err := ParameterSource{Params: params, Name: "seed/fraud_cases"}.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)
	require.Equal(t, "  [ ]", string(raw))
	require.Equal(t, "seed/fraud_cases", params.name)

	params.value = "fraud_cases: []"
	_, format, err = ParameterSource{Params: params, Name: "seed/fraud_cases"}.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)

	params.err = errors.New("access denied")
	_, _, err = ParameterSource{Params: params, Name: "seed/fraud_cases"}.Load(context.Background())
	require.ErrorContains(t, err, "access denied")

	_, _, err = ParameterSource{}.Load(context.Background())
	require.Error(t, err)
}
