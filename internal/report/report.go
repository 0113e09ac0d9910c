// Package report summarizes stored fraud cases for operators.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fraud-alert-agent/internal/domain"
)

// HighValueThreshold is the amount above which a case counts as high value.
const HighValueThreshold = 1000.0

// Stats is the operator dashboard summary.
type Stats struct {
	Total     int
	ByStatus  map[domain.CaseStatus]int
	HighValue int
	// Unparsed counts cases whose amount could not be read.
	Unparsed int
}

// Summarize totals cases by status and counts high-value transactions.
func Summarize(cases []domain.Case) Stats {
	st := Stats{
		Total: len(cases),
		ByStatus: map[domain.CaseStatus]int{
			domain.StatusPendingReview:  0,
			domain.StatusConfirmedSafe:  0,
			domain.StatusConfirmedFraud: 0,
		},
	}
	for _, fc := range cases {
		st.ByStatus[fc.Status]++
		amount, err := ParseAmount(fc.Transaction.Amount)
		if err != nil {
			st.Unparsed++
			continue
		}
		if amount > HighValueThreshold {
			st.HighValue++
		}
	}
	return st
}

// ParseAmount reads a display amount such as "$1,249.99".
func ParseAmount(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("report: empty amount")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("report: parse amount %q: %w", s, err)
	}
	return v, nil
}

// FilterByStatus returns the cases with the given status. An empty status
// returns every case.
func FilterByStatus(cases []domain.Case, status domain.CaseStatus) []domain.Case {
	if status == "" {
		return cases
	}
	out := make([]domain.Case, 0, len(cases))
	for _, fc := range cases {
		if fc.Status == status {
			out = append(out, fc)
		}
	}
	return out
}

// SortNewestFirst orders cases by LastUpdated, most recent first. Timestamps
// that do not parse sort after those that do, then by customer key.
func SortNewestFirst(cases []domain.Case) {
	sort.SliceStable(cases, func(i, j int) bool {
		ti, okI := parseStamp(cases[i].LastUpdated)
		tj, okJ := parseStamp(cases[j].LastUpdated)
		switch {
		case okI && okJ && !ti.Equal(tj):
			return ti.After(tj)
		case okI != okJ:
			return okI
		}
		return cases[i].CustomerKey < cases[j].CustomerKey
	})
}

// MaskSecret hides all but the first character of a security answer.
func MaskSecret(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= 1 {
		return strings.Repeat("*", len(r))
	}
	return string(r[0]) + strings.Repeat("*", len(r)-1)
}

var stampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func parseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
