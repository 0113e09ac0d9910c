package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/logging"
)

const defaultMaxInput = 300

// Operation names one driver-invoked step of a fraud alert call.
type Operation string

const (
	OpLoadCase          Operation = "loadCase"
	OpAskQuestion       Operation = "askQuestion"
	OpSubmitAnswer      Operation = "submitAnswer"
	OpReadTransaction   Operation = "readTransaction"
	OpRecordDisposition Operation = "recordDisposition"
	OpEndCall           Operation = "endCall"
)

// SessionStore keeps the session of an in-progress call between driver turns.
// GetSession returns nil, nil for an unknown call.
type SessionStore interface {
	GetSession(ctx context.Context, callID string) (*domain.Session, error)
	PutSession(ctx context.Context, sess *domain.Session) error
	DeleteSession(ctx context.Context, callID string) error
}

type CallInput struct {
	CallID    string
	Operation Operation
	Input     string
}

type CallOutput struct {
	CallID       string
	Reply        string
	Stage        domain.CallStage
	Verification domain.VerificationState
}

// CallService drives one driver turn: it restores the call's session, runs
// the requested operation on the fraud desk and stores the session again.
type CallService struct {
	desk        *FraudDesk
	sessions    SessionStore
	maxInputLen int
}

func NewCallService(desk *FraudDesk, sessions SessionStore, maxInputLen int) (*CallService, error) {
	if desk == nil {
		return nil, errors.New("usecase: fraud desk must not be nil")
	}
	if sessions == nil {
		return nil, errors.New("usecase: session store must not be nil")
	}
	if maxInputLen <= 0 {
		maxInputLen = defaultMaxInput
	}
	return &CallService{desk: desk, sessions: sessions, maxInputLen: maxInputLen}, nil
}

func (s *CallService) Handle(ctx context.Context, in CallInput) (CallOutput, error) {
	op := Operation(strings.TrimSpace(string(in.Operation)))
	if !op.valid() {
		return CallOutput{CallID: in.CallID}, newError(ErrorInvalidInput, "unknown_operation", "", nil)
	}
	if len(in.Input) > s.maxInputLen {
		return CallOutput{CallID: in.CallID}, newError(ErrorInvalidInput, "input_too_long", "", nil)
	}

	callID := strings.TrimSpace(in.CallID)
	if callID == "" {
		callID = newUUID()
	}
	ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("call_id", callID, "operation", string(op)))

	sess, err := s.sessions.GetSession(ctx, callID)
	if err != nil {
		logging.L(ctx).Error("session read failed", "event", "session_read_error", "err", err)
		return CallOutput{CallID: callID}, newError(ErrorStoreUnavailable, "session_read_error", promptCallBackLater, err)
	}
	if sess == nil {
		sess = domain.NewSession(callID)
	}

	reply, opErr := s.dispatch(ctx, sess, op, in.Input)
	out := CallOutput{
		CallID:       callID,
		Reply:        reply,
		Stage:        sess.Stage,
		Verification: sess.Verification,
	}
	if opErr != nil {
		return out, opErr
	}

	if op == OpEndCall {
		if err := s.sessions.DeleteSession(ctx, callID); err != nil {
			logging.L(ctx).Warn("session cleanup failed", "event", "session_delete_error", "err", err)
		}
		return out, nil
	}
	if err := s.sessions.PutSession(ctx, sess); err != nil {
		logging.L(ctx).Error("session write failed", "event", "session_write_error", "err", err)
		return out, newError(ErrorStoreUnavailable, "session_write_error", promptCallBackLater, err)
	}
	return out, nil
}

func (s *CallService) dispatch(ctx context.Context, sess *domain.Session, op Operation, input string) (string, error) {
	switch op {
	case OpLoadCase:
		return s.desk.LoadCase(ctx, sess, input)
	case OpAskQuestion:
		return s.desk.AskQuestion(ctx, sess)
	case OpSubmitAnswer:
		return s.desk.SubmitAnswer(ctx, sess, input)
	case OpReadTransaction:
		return s.desk.ReadTransaction(ctx, sess)
	case OpRecordDisposition:
		return s.desk.RecordDisposition(ctx, sess, input)
	default:
		return s.desk.EndCall(ctx, sess), nil
	}
}

func (op Operation) valid() bool {
	switch op {
	case OpLoadCase, OpAskQuestion, OpSubmitAnswer, OpReadTransaction, OpRecordDisposition, OpEndCall:
		return true
	}
	return false
}

var newUUID = func() string {
	return uuid.NewString()
}
