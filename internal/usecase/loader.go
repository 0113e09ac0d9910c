package usecase

import (
	"context"
	"errors"
	"strings"

	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/logging"
)

// LoadCase binds the case of the named customer to the session. Loading again
// replaces the bound case and restarts verification.
func (d *FraudDesk) LoadCase(ctx context.Context, sess *domain.Session, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newError(ErrorInvalidInput, "empty_name", promptAskName, nil)
	}
	// A failed verification ends the call; rebinding would reopen the gate.
	if sess.Verification == domain.VerificationFailed {
		return "", verificationLocked()
	}

	key := domain.CustomerKey(name)
	fc, err := d.store.FindCase(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			logging.L(ctx).Info("no case for caller", "event", "case_not_found", "customer_key", key)
			return "", newError(ErrorNotFound, "case_not_found", caseNotFoundPrompt(name), err)
		}
		logging.L(ctx).Error("case lookup failed", "event", "case_lookup_error", "customer_key", key, "err", err)
		return "", newError(ErrorStoreUnavailable, "case_lookup_error", promptCallBackLater, err)
	}

	sess.Case = &fc
	sess.Verification = domain.VerificationNotStarted
	sess.Stage = domain.StageVerification

	logging.L(ctx).Info("case loaded",
		"event", "case_loaded",
		"customer_key", fc.CustomerKey,
		"status", string(fc.Status),
	)
	return caseLoadedReply(displayName(fc)), nil
}
