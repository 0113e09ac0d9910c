package domain

// VerificationState tracks the security-question exchange for one call.
type VerificationState string

const (
	VerificationNotStarted     VerificationState = "not_started"
	VerificationAwaitingAnswer VerificationState = "awaiting_answer"
	VerificationVerified       VerificationState = "verified"
	VerificationFailed         VerificationState = "failed"
)

// CallStage is the coarse position of a call in the fraud alert script.
type CallStage string

const (
	StageGreeting          CallStage = "greeting"
	StageVerification      CallStage = "verification"
	StageTransactionReview CallStage = "transaction_review"
	StageCaseUpdate        CallStage = "case_update"
	StageClosing           CallStage = "closing"
)

// Session is the per-call context. It is owned by a single call and is never
// shared between calls. Case is a private copy of the bound case row.
type Session struct {
	CallID       string
	Case         *Case
	Verification VerificationState
	Stage        CallStage
}

// NewSession returns an empty session for a freshly started call.
func NewSession(callID string) *Session {
	return &Session{
		CallID:       callID,
		Verification: VerificationNotStarted,
		Stage:        StageGreeting,
	}
}

// Bound reports whether a case has been loaded into the session.
func (s *Session) Bound() bool {
	return s != nil && s.Case != nil
}
