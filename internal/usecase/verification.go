package usecase

import (
	"context"
	"crypto/subtle"
	"strings"

	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/logging"
)

// AskQuestion returns the stored security question of the bound case and
// moves verification to awaiting_answer. Once verified it is a no-op.
func (d *FraudDesk) AskQuestion(ctx context.Context, sess *domain.Session) (string, error) {
	if !sess.Bound() {
		return "", noActiveCase()
	}

	switch sess.Verification {
	case domain.VerificationVerified:
		return promptAlreadyVerified, nil
	case domain.VerificationFailed:
		return "", verificationLocked()
	case domain.VerificationAwaitingAnswer:
		return "", newError(ErrorWrongPhase, "question_already_asked", questionPendingPrompt(sess.Case.SecurityQuestion), nil)
	}

	question := strings.TrimSpace(sess.Case.SecurityQuestion)
	if question == "" {
		logging.L(ctx).Error("case has no security question", "event", "case_invalid", "customer_key", sess.Case.CustomerKey)
		return "", newError(ErrorInternal, "missing_security_question", promptCallBackLater, nil)
	}

	sess.Verification = domain.VerificationAwaitingAnswer
	sess.Stage = domain.StageVerification
	return securityQuestionReply(question), nil
}

// SubmitAnswer compares the caller's answer with the stored one. The gate
// accepts exactly one answer per call: a mismatch is terminal.
func (d *FraudDesk) SubmitAnswer(ctx context.Context, sess *domain.Session, answer string) (string, error) {
	if !sess.Bound() {
		return "", noActiveCase()
	}

	switch sess.Verification {
	case domain.VerificationNotStarted:
		return "", newError(ErrorWrongPhase, "question_not_asked", promptAskQuestionFirst, nil)
	case domain.VerificationVerified:
		return "", newError(ErrorWrongPhase, "already_verified", promptAlreadyVerified, nil)
	case domain.VerificationFailed:
		return "", verificationLocked()
	}

	logger := logging.L(ctx).With("customer_key", sess.Case.CustomerKey)
	stored, err := d.storedAnswer(ctx, sess.Case)
	if err != nil {
		logger.Error("security answer lookup failed", "event", "case_lookup_error", "err", err)
		return "", newError(ErrorStoreUnavailable, "case_lookup_error", promptCallBackLater, err)
	}
	if !answersMatch(answer, stored) {
		sess.Verification = domain.VerificationFailed
		logger.Warn("verification failed", "event", "verification_failed")
		return verificationFailedReply(), nil
	}

	sess.Verification = domain.VerificationVerified
	sess.Stage = domain.StageTransactionReview
	logger.Info("verification passed", "event", "verification_passed")
	return verificationPassedReply(), nil
}

// storedAnswer returns the security answer of fc. Call snapshots do not carry
// it, so a restored session reads it from the case row.
func (d *FraudDesk) storedAnswer(ctx context.Context, fc *domain.Case) (string, error) {
	if fc.SecurityAnswer != "" {
		return fc.SecurityAnswer, nil
	}
	row, err := d.store.FindCase(ctx, fc.CustomerKey)
	if err != nil {
		return "", err
	}
	return row.SecurityAnswer, nil
}

// answersMatch is a case-insensitive, whitespace-trimmed exact comparison.
// An empty stored answer never matches.
func answersMatch(given, stored string) bool {
	want := strings.ToLower(strings.TrimSpace(stored))
	if want == "" {
		return false
	}
	got := strings.ToLower(strings.TrimSpace(given))
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
