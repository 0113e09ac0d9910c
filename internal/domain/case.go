package domain

import "strings"

// CaseStatus is the authoritative disposition of a fraud case.
type CaseStatus string

const (
	StatusPendingReview      CaseStatus = "pending_review"
	StatusConfirmedSafe      CaseStatus = "confirmed_safe"
	StatusConfirmedFraud     CaseStatus = "confirmed_fraud"
	StatusVerificationFailed CaseStatus = "verification_failed"
)

// Valid reports whether s is one of the known statuses.
func (s CaseStatus) Valid() bool {
	switch s {
	case StatusPendingReview, StatusConfirmedSafe, StatusConfirmedFraud, StatusVerificationFailed:
		return true
	}
	return false
}

// Confirmed reports whether s is a terminal customer-confirmed disposition.
func (s CaseStatus) Confirmed() bool {
	return s == StatusConfirmedSafe || s == StatusConfirmedFraud
}

// Transaction is the flagged transaction snapshot. It is never modified after
// the case is created.
type Transaction struct {
	Merchant string
	Time     string
	Amount   string
	Category string
	Source   string
	Location string
}

// Case is a persisted fraud alert tied to one customer and one transaction.
type Case struct {
	CustomerKey        string
	CustomerName       string
	SecurityIdentifier string
	CardSuffix         string
	Status             CaseStatus
	Transaction        Transaction
	SecurityQuestion   string
	SecurityAnswer     string
	LastUpdated        string
	// OutcomeNote is empty until a disposition is recorded.
	OutcomeNote string
}

// CustomerKey normalizes a caller-supplied name into a case identity.
func CustomerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
