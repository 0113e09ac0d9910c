package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fraud-alert-agent/internal/domain"
)

// ErrNoSnapshot is returned by a Source that has nothing to offer.
var ErrNoSnapshot = errors.New("seed: snapshot not found")

// Source supplies a raw snapshot document.
type Source interface {
	Load(ctx context.Context) ([]byte, Format, error)
}

// FileSource reads a snapshot from the local filesystem.
type FileSource struct {
	Path string
}

func (f FileSource) Load(context.Context) ([]byte, Format, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrNoSnapshot, f.Path)
		}
		return nil, "", fmt.Errorf("seed: read %s: %w", f.Path, err)
	}
	return raw, FormatFromPath(f.Path), nil
}

// ParamGetter reads a single SSM parameter value.
type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ParameterSource reads a snapshot stored in an SSM parameter. The format is
// sniffed from the first character: JSON documents start with { or [.
type ParameterSource struct {
	Params ParamGetter
	Name   string
}

func (p ParameterSource) Load(ctx context.Context) ([]byte, Format, error) {
	if p.Params == nil {
		return nil, "", errors.New("seed: parameter source has no getter")
	}
	value, err := p.Params.GetParameter(ctx, p.Name)
	if err != nil {
		return nil, "", fmt.Errorf("seed: load parameter: %w", err)
	}
	raw := []byte(value)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return raw, FormatJSON, nil
	}
	return raw, FormatYAML, nil
}

// Target is the store a snapshot is loaded into.
type Target interface {
	CountCases(ctx context.Context) (int, error)
	InsertCase(ctx context.Context, fc domain.Case) (bool, error)
}

// Result summarizes one Ensure run.
type Result struct {
	AlreadySeeded bool
	Inserted      int
	Skipped       int
}

// Seeder initializes an empty case store from a snapshot.
type Seeder struct {
	target Target
	source Source
	log    *slog.Logger
	now    func() time.Time
}

func NewSeeder(target Target, source Source, logger *slog.Logger) (*Seeder, error) {
	if target == nil {
		return nil, errors.New("seed: target must not be nil")
	}
	if source == nil {
		return nil, errors.New("seed: source must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{target: target, source: source, log: logger, now: time.Now}, nil
}

// Ensure seeds the target when, and only when, it holds no cases. A missing or
// malformed snapshot leaves the store empty and is logged, not returned; store
// errors are returned.
func (s *Seeder) Ensure(ctx context.Context) (Result, error) {
	count, err := s.target.CountCases(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed: count cases: %w", err)
	}
	if count > 0 {
		return Result{AlreadySeeded: true}, nil
	}

	raw, format, err := s.source.Load(ctx)
	if err != nil {
		s.log.Warn("seed snapshot unavailable, case store left empty", "event", "seed_unavailable", "err", err)
		return Result{}, nil
	}
	cases, skipped, err := Parse(raw, format)
	if err != nil {
		s.log.Warn("seed snapshot malformed, case store left empty", "event", "seed_unavailable", "err", err)
		return Result{}, nil
	}
	for _, rowErr := range skipped {
		s.log.Warn("skipped malformed seed row", "event", "seed_skipped_row", "row", rowErr.Index, "err", rowErr.Err)
	}

	res := Result{Skipped: len(skipped)}
	stamp := s.now().UTC().Format(time.RFC3339)
	for _, fc := range cases {
		if strings.TrimSpace(fc.LastUpdated) == "" {
			fc.LastUpdated = stamp
		}
		inserted, err := s.target.InsertCase(ctx, fc)
		if err != nil {
			return res, fmt.Errorf("seed: insert %q: %w", fc.CustomerKey, err)
		}
		if inserted {
			res.Inserted++
		}
	}
	s.log.Info("case store seeded", "event", "seed_loaded", "inserted", res.Inserted, "skipped", res.Skipped)
	return res, nil
}
