package usecase

import (
	"context"

	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/logging"
)

// ReadTransaction discloses the flagged transaction of a verified caller.
func (d *FraudDesk) ReadTransaction(ctx context.Context, sess *domain.Session) (string, error) {
	if !sess.Bound() {
		return "", notVerified("no_case_bound")
	}
	if sess.Verification != domain.VerificationVerified {
		return "", notVerified("disclosure_before_verification")
	}

	// Stages only move forward; re-reading after a disposition stays in closing.
	if sess.Stage != domain.StageClosing {
		sess.Stage = domain.StageCaseUpdate
	}
	logging.L(ctx).Info("transaction disclosed",
		"event", "transaction_disclosed",
		"customer_key", sess.Case.CustomerKey,
	)
	return transactionReadout(*sess.Case), nil
}
