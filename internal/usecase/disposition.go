package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/logging"
)

type disposition int

const (
	dispositionAmbiguous disposition = iota
	dispositionAffirmed
	dispositionDenied
)

var (
	affirmPhrases = [][]string{{"yes"}, {"i", "made"}, {"i", "did"}}
	denyPhrases   = [][]string{{"no"}, {"nope"}, {"not", "me"}, {"not", "mine"}, {"didn't"}}
)

// RecordDisposition classifies the caller's answer to the disclosed
// transaction, updates the bound case and persists it. A persistence failure
// is reported to the operator log only; the caller hears the normal outcome.
func (d *FraudDesk) RecordDisposition(ctx context.Context, sess *domain.Session, response string) (string, error) {
	if !sess.Bound() {
		return "", notVerified("no_case_bound")
	}
	if sess.Verification != domain.VerificationVerified {
		return "", notVerified("disposition_before_verification")
	}
	if sess.Case.Status != domain.StatusPendingReview {
		return "", newError(ErrorWrongPhase, "disposition_already_recorded", promptAlreadyRecorded, nil)
	}

	updated := *sess.Case
	var reply string
	switch classifyResponse(response) {
	case dispositionAffirmed:
		updated.Status = domain.StatusConfirmedSafe
		updated.OutcomeNote = outcomeNoteSafe
		reply = confirmedSafeReply(updated)
	case dispositionDenied:
		updated.Status = domain.StatusConfirmedFraud
		updated.OutcomeNote = outcomeNoteFraud
		reply = confirmedFraudReply(updated)
	default:
		return "", newError(ErrorAmbiguousResponse, "unclassified_response", fmt.Sprintf(promptClearYesNo, updated.Transaction.Amount), nil)
	}
	updated.LastUpdated = d.now().UTC().Format(time.RFC3339)
	sess.Case = &updated

	logger := logging.L(ctx).With("customer_key", updated.CustomerKey, "status", string(updated.Status))
	if err := d.store.SaveCase(ctx, updated); err != nil {
		code := ErrorStoreUnavailable
		if errors.Is(err, domain.ErrNotPersisted) {
			code = ErrorNotPersisted
		}
		logger.Error("disposition not persisted", "event", "persistence_failure", "code", string(code), "err", err)
	} else {
		logger.Info("disposition recorded", "event", "disposition_recorded")
	}

	sess.Stage = domain.StageClosing
	return reply, nil
}

// EndCall returns the closing statement and moves the call to closing.
func (d *FraudDesk) EndCall(ctx context.Context, sess *domain.Session) string {
	sess.Stage = domain.StageClosing
	attrs := []any{"event", "call_ended", "verification", string(sess.Verification)}
	if sess.Bound() {
		attrs = append(attrs, "customer_key", sess.Case.CustomerKey, "status", string(sess.Case.Status))
	}
	logging.L(ctx).Info("call ended", attrs...)
	return closingReply(sess)
}

// classifyResponse matches keyword phrases on word boundaries, affirmations
// first. A negated affirmation ("i did not") is not an affirmation; when no
// denial keyword is present it counts as a denial.
func classifyResponse(response string) disposition {
	words := responseWords(response)
	negatedAffirm := false
	for _, phrase := range affirmPhrases {
		plain, negated := findPhrase(words, phrase)
		if plain {
			return dispositionAffirmed
		}
		negatedAffirm = negatedAffirm || negated
	}
	for _, phrase := range denyPhrases {
		if plain, _ := findPhrase(words, phrase); plain {
			return dispositionDenied
		}
	}
	if negatedAffirm {
		return dispositionDenied
	}
	return dispositionAmbiguous
}

func responseWords(s string) []string {
	s = strings.ToLower(strings.ReplaceAll(s, "’", "'"))
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// findPhrase reports whether phrase occurs in words un-negated, and whether it
// occurs followed by a negation. Single words are never treated as negated.
func findPhrase(words, phrase []string) (plain, negated bool) {
	for i := 0; i+len(phrase) <= len(words); i++ {
		matched := true
		for j, w := range phrase {
			if words[i+j] != w {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if next := i + len(phrase); len(phrase) > 1 && next < len(words) && isNegation(words[next]) {
			negated = true
			continue
		}
		return true, negated
	}
	return false, negated
}

func isNegation(w string) bool {
	return w == "not" || w == "never"
}
