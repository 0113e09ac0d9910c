package usecase

import (
	"context"
	"errors"
	"time"

	"fraud-alert-agent/internal/domain"
)

// CaseStore is the persistence contract of the fraud desk. FindCase returns
// domain.ErrCaseNotFound for unknown customers; SaveCase returns
// domain.ErrNotPersisted when the row does not exist.
type CaseStore interface {
	FindCase(ctx context.Context, customerKey string) (domain.Case, error)
	SaveCase(ctx context.Context, fc domain.Case) error
}

// FraudDesk runs the verification and disposition workflow of a fraud alert
// call. It holds no per-call state; every operation reads and mutates the
// Session passed to it.
type FraudDesk struct {
	store CaseStore
	now   func() time.Time
}

// NewFraudDesk creates a FraudDesk backed by the given case store.
func NewFraudDesk(store CaseStore) (*FraudDesk, error) {
	if store == nil {
		return nil, errors.New("usecase: case store must not be nil")
	}
	return &FraudDesk{store: store, now: time.Now}, nil
}

func noActiveCase() *Error {
	return newError(ErrorNoActiveCase, "no_case_bound", promptLoadCaseFirst, nil)
}

func notVerified(reason string) *Error {
	return newError(ErrorNotVerified, reason, promptVerifyFirst, nil)
}

func verificationLocked() *Error {
	return newError(ErrorWrongPhase, "verification_failed", promptVerificationLock, nil)
}
