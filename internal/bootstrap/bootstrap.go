// Package bootstrap builds the store and seeding dependencies shared by the
// call handler and casectl.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"fraud-alert-agent/internal/config"
	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/integrations/paramstore"
	"fraud-alert-agent/internal/repository"
	"fraud-alert-agent/internal/seed"
	"fraud-alert-agent/internal/usecase"
)

// Store is everything the call flow, seeding and reporting need from the
// backing store. *repository.Client and *repository.MemoryStore satisfy it.
type Store interface {
	usecase.CaseStore
	usecase.SessionStore
	seed.Target
	ListCases(ctx context.Context) ([]domain.Case, error)
}

// Runtime holds the wired dependencies.
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger
	Store  Store
	// Source is the configured seed snapshot source.
	Source seed.Source
}

// Open wires the store and seed source from cfg. AWS configuration is loaded
// only when DynamoDB tables or an SSM prefix are configured.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{Config: cfg, Logger: logger}

	var awsCfg aws.Config
	if cfg.UseDynamo() || cfg.ParamPrefix != "" {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
	}

	if cfg.UseDynamo() {
		client, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.CasesTable, cfg.StateTable,
			repository.WithSessionTTL(cfg.SessionTTL))
		if err != nil {
			return nil, fmt.Errorf("create case store: %w", err)
		}
		rt.Store = client
	} else {
		logger.Warn("CASES_TABLE not set; using in-memory case store, dispositions will not survive restarts")
		rt.Store = repository.NewMemoryStore()
	}

	if cfg.ParamPrefix != "" {
		params, err := paramstore.New(awsssm.NewFromConfig(awsCfg), cfg.ParamPrefix)
		if err != nil {
			return nil, fmt.Errorf("create parameter client: %w", err)
		}
		rt.Source = seed.ParameterSource{Params: params, Name: config.SeedParameter}
	} else {
		rt.Source = seed.FileSource{Path: cfg.SeedFile}
	}
	return rt, nil
}

// Seed loads src, or the configured source when src is nil, into an empty
// store.
func (rt *Runtime) Seed(ctx context.Context, src seed.Source) (seed.Result, error) {
	if src == nil {
		src = rt.Source
	}
	seeder, err := seed.NewSeeder(rt.Store, src, rt.Logger)
	if err != nil {
		return seed.Result{}, err
	}
	return seeder.Ensure(ctx)
}

// CallService wires the fraud desk and call service onto the store.
func (rt *Runtime) CallService() (*usecase.CallService, error) {
	desk, err := usecase.NewFraudDesk(rt.Store)
	if err != nil {
		return nil, fmt.Errorf("create fraud desk: %w", err)
	}
	svc, err := usecase.NewCallService(desk, rt.Store, rt.Config.MaxInputLength)
	if err != nil {
		return nil, fmt.Errorf("create call service: %w", err)
	}
	return svc, nil
}
