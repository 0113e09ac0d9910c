package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"fraud-alert-agent/internal/logging"
	"fraud-alert-agent/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"
	fallbackPrompt    = "I'm having trouble accessing our fraud database right now. Please call back in a few minutes."
)

// UseCase runs one turn of a fraud alert call.
type UseCase interface {
	Handle(ctx context.Context, in usecase.CallInput) (usecase.CallOutput, error)
}

type callRequest struct {
	CallID    string `json:"callId"`
	Operation string `json:"operation"`
	Input     string `json:"input"`
}

type callResponse struct {
	CallID       string `json:"callId"`
	Reply        string `json:"reply"`
	Stage        string `json:"stage"`
	Verification string `json:"verification"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Prompt string `json:"prompt,omitempty"`
	CallID string `json:"callId,omitempty"`
}

// Handler adapts API Gateway proxy events to the call use case.
type Handler struct {
	uc UseCase
}

func NewHandler(uc UseCase) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	return &Handler{uc: uc}, nil
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := headerValue(req.Headers, correlationHeader)
	if corrID == "" {
		corrID = uuid.NewString()
	}
	ctx = logging.WithCorrelationID(ctx, corrID)

	var body callRequest
	dec := json.NewDecoder(strings.NewReader(req.Body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		logging.L(ctx).Warn("rejected malformed request", "err", err)
		return respond(corrID, http.StatusBadRequest, errorResponse{
			Error:  string(usecase.ErrorInvalidInput),
			Reason: "malformed_body",
		}), nil
	}

	out, err := h.uc.Handle(ctx, usecase.CallInput{
		CallID:    body.CallID,
		Operation: usecase.Operation(body.Operation),
		Input:     body.Input,
	})
	if err != nil {
		status, payload := mapError(err)
		if payload.CallID == "" {
			payload.CallID = out.CallID
		}
		if status >= http.StatusInternalServerError {
			logging.L(ctx).Error("call turn failed", "call_id", out.CallID, "err", err)
		}
		return respond(corrID, status, payload), nil
	}

	return respond(corrID, http.StatusOK, callResponse{
		CallID:       out.CallID,
		Reply:        out.Reply,
		Stage:        string(out.Stage),
		Verification: string(out.Verification),
	}), nil
}

func mapError(err error) (int, errorResponse) {
	var usecaseErr *usecase.Error
	if !errors.As(err, &usecaseErr) {
		return http.StatusInternalServerError, errorResponse{
			Error:  string(usecase.ErrorInternal),
			Prompt: fallbackPrompt,
		}
	}

	payload := errorResponse{
		Error:  string(usecaseErr.Code),
		Reason: usecaseErr.Reason,
		Prompt: usecaseErr.Prompt,
	}
	switch usecaseErr.Code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest, payload
	case usecase.ErrorNotFound:
		return http.StatusNotFound, payload
	case usecase.ErrorNoActiveCase, usecase.ErrorWrongPhase, usecase.ErrorNotVerified:
		return http.StatusConflict, payload
	case usecase.ErrorAmbiguousResponse:
		return http.StatusUnprocessableEntity, payload
	case usecase.ErrorStoreUnavailable:
		return http.StatusServiceUnavailable, payload
	default:
		if payload.Prompt == "" {
			payload.Prompt = fallbackPrompt
		}
		return http.StatusInternalServerError, payload
	}
}

func respond(corrID string, status int, payload any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: corrID,
		},
		Body: string(body),
	}
}

// headerValue looks up a header case-insensitively; API Gateway forwards
// whatever casing the client sent.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
