// Package seed reads and writes fraud case snapshots: the documents an empty
// case store is initialized from, and that casectl exports.
package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fraud-alert-agent/internal/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the snapshot format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is the on-disk snapshot shape.
type Document struct {
	FraudCases []Record `json:"fraud_cases" yaml:"fraud_cases"`
}

// Record is one case row as it appears in a snapshot.
type Record struct {
	UserName            string `json:"userName" yaml:"userName"`
	SecurityIdentifier  string `json:"securityIdentifier" yaml:"securityIdentifier"`
	CardEnding          string `json:"cardEnding" yaml:"cardEnding"`
	Case                string `json:"case,omitempty" yaml:"case,omitempty"`
	TransactionName     string `json:"transactionName" yaml:"transactionName"`
	TransactionTime     string `json:"transactionTime" yaml:"transactionTime"`
	TransactionAmount   string `json:"transactionAmount" yaml:"transactionAmount"`
	TransactionCategory string `json:"transactionCategory" yaml:"transactionCategory"`
	TransactionSource   string `json:"transactionSource" yaml:"transactionSource"`
	SecurityQuestion    string `json:"securityQuestion" yaml:"securityQuestion"`
	SecurityAnswer      string `json:"securityAnswer" yaml:"securityAnswer"`
	Location            string `json:"location" yaml:"location"`
	LastUpdated         string `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
	OutcomeNote         string `json:"outcomeNote,omitempty" yaml:"outcomeNote,omitempty"`
}

// RowError describes a snapshot row that was skipped.
type RowError struct {
	Index int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("seed: row %d: %v", e.Index, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

var (
	errMissingName     = errors.New("userName is required")
	errMissingQuestion = errors.New("securityQuestion is required")
	errMissingAnswer   = errors.New("securityAnswer is required")
	errDuplicate       = errors.New("duplicate customer")
)

// Parse decodes a snapshot. The document is either {"fraud_cases": [...]} or
// a bare array of records. Rows that fail to decode or validate are skipped and
// reported; only an undecodable document is an error.
func Parse(raw []byte, format Format) ([]domain.Case, []RowError, error) {
	rows, err := splitRows(raw, format)
	if err != nil {
		return nil, nil, err
	}

	var (
		cases   []domain.Case
		skipped []RowError
		seen    = make(map[string]bool, len(rows))
	)
	for i, decode := range rows {
		var rec Record
		if err := decode(&rec); err != nil {
			skipped = append(skipped, RowError{Index: i, Err: err})
			continue
		}
		fc, err := rec.toCase()
		if err != nil {
			skipped = append(skipped, RowError{Index: i, Err: err})
			continue
		}
		if seen[fc.CustomerKey] {
			skipped = append(skipped, RowError{Index: i, Err: fmt.Errorf("%w %q", errDuplicate, fc.CustomerKey)})
			continue
		}
		seen[fc.CustomerKey] = true
		cases = append(cases, fc)
	}
	return cases, skipped, nil
}

// Encode renders cases as a snapshot document.
func Encode(cases []domain.Case, format Format) ([]byte, error) {
	doc := Document{FraudCases: make([]Record, 0, len(cases))}
	for _, fc := range cases {
		doc.FraudCases = append(doc.FraudCases, recordFromCase(fc))
	}
	if format == FormatYAML {
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("seed: encode yaml: %w", err)
		}
		return out, nil
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("seed: encode json: %w", err)
	}
	return append(out, '\n'), nil
}

type rowDecoder func(*Record) error

func splitRows(raw []byte, format Format) ([]rowDecoder, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("seed: empty snapshot")
	}
	if format == FormatYAML {
		return splitYAML(raw)
	}
	return splitJSON(raw)
}

func splitJSON(raw []byte) ([]rowDecoder, error) {
	var items []json.RawMessage
	if bytes.TrimSpace(raw)[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("seed: decode json: %w", err)
		}
	} else {
		var doc struct {
			FraudCases []json.RawMessage `json:"fraud_cases"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("seed: decode json: %w", err)
		}
		items = doc.FraudCases
	}

	rows := make([]rowDecoder, 0, len(items))
	for _, item := range items {
		item := item
		rows = append(rows, func(r *Record) error { return json.Unmarshal(item, r) })
	}
	return rows, nil
}

func splitYAML(raw []byte) ([]rowDecoder, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("seed: decode yaml: %w", err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind == yaml.MappingNode {
		var list *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "fraud_cases" {
				list = node.Content[i+1]
				break
			}
		}
		if list == nil {
			return nil, nil
		}
		node = list
	}
	if node.Kind != yaml.SequenceNode {
		return nil, errors.New("seed: decode yaml: fraud_cases is not a list")
	}

	rows := make([]rowDecoder, 0, len(node.Content))
	for _, item := range node.Content {
		item := item
		rows = append(rows, func(r *Record) error { return item.Decode(r) })
	}
	return rows, nil
}

func (r Record) toCase() (domain.Case, error) {
	name := strings.TrimSpace(r.UserName)
	if name == "" {
		return domain.Case{}, errMissingName
	}
	if strings.TrimSpace(r.SecurityQuestion) == "" {
		return domain.Case{}, errMissingQuestion
	}
	if strings.TrimSpace(r.SecurityAnswer) == "" {
		return domain.Case{}, errMissingAnswer
	}

	status := domain.StatusPendingReview
	if s := strings.TrimSpace(r.Case); s != "" {
		status = domain.CaseStatus(strings.ToLower(s))
		// verification_failed is a call outcome, never a stored status.
		if !status.Valid() || status == domain.StatusVerificationFailed {
			return domain.Case{}, fmt.Errorf("unsupported case status %q", r.Case)
		}
	}

	return domain.Case{
		CustomerKey:        domain.CustomerKey(name),
		CustomerName:       name,
		SecurityIdentifier: strings.TrimSpace(r.SecurityIdentifier),
		CardSuffix:         strings.TrimSpace(r.CardEnding),
		Status:             status,
		Transaction: domain.Transaction{
			Merchant: strings.TrimSpace(r.TransactionName),
			Time:     strings.TrimSpace(r.TransactionTime),
			Amount:   strings.TrimSpace(r.TransactionAmount),
			Category: strings.TrimSpace(r.TransactionCategory),
			Source:   strings.TrimSpace(r.TransactionSource),
			Location: strings.TrimSpace(r.Location),
		},
		SecurityQuestion: strings.TrimSpace(r.SecurityQuestion),
		SecurityAnswer:   r.SecurityAnswer,
		LastUpdated:      strings.TrimSpace(r.LastUpdated),
		OutcomeNote:      r.OutcomeNote,
	}, nil
}

func recordFromCase(fc domain.Case) Record {
	name := fc.CustomerName
	if name == "" {
		name = fc.CustomerKey
	}
	return Record{
		UserName:            name,
		SecurityIdentifier:  fc.SecurityIdentifier,
		CardEnding:          fc.CardSuffix,
		Case:                string(fc.Status),
		TransactionName:     fc.Transaction.Merchant,
		TransactionTime:     fc.Transaction.Time,
		TransactionAmount:   fc.Transaction.Amount,
		TransactionCategory: fc.Transaction.Category,
		TransactionSource:   fc.Transaction.Source,
		SecurityQuestion:    fc.SecurityQuestion,
		SecurityAnswer:      fc.SecurityAnswer,
		Location:            fc.Transaction.Location,
		LastUpdated:         fc.LastUpdated,
		OutcomeNote:         fc.OutcomeNote,
	}
}
