package seed

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"fraud-alert-agent/internal/domain"
)

const jsonSnapshot = `{
  "fraud_cases": [
    {
      "userName": "Alice",
      "securityIdentifier": "12345",
      "cardEnding": "4242",
      "case": "pending_review",
      "transactionName": "ABC Industry",
      "transactionTime": "2026-02-28T21:15:00",
      "transactionAmount": "$1,249.99",
      "transactionCategory": "e-commerce",
      "transactionSource": "alibaba.com",
      "securityQuestion": "What is your favorite color?",
      "securityAnswer": "blue",
      "location": "Shanghai, China",
      "lastUpdated": "2026-02-28T21:16:00Z"
    },
    {"userName": "", "securityQuestion": "q", "securityAnswer": "a"},
    {"userName": "Bob", "securityQuestion": "Pet name?", "securityAnswer": "fluffy", "case": "confirmed_safe"},
    {"userName": "bob ", "securityQuestion": "Pet name?", "securityAnswer": "rex"},
    {"userName": "Carol", "securityQuestion": "City?", "securityAnswer": "paris", "case": "verification_failed"},
    {"userName": 42}
  ]
}`

func TestParse_JSONSkipsBadRows(t *testing.T) {
	cases, skipped, err := Parse([]byte(jsonSnapshot), FormatJSON)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	want := domain.Case{
		CustomerKey:        "alice",
		CustomerName:       "Alice",
		SecurityIdentifier: "12345",
		CardSuffix:         "4242",
		Status:             domain.StatusPendingReview,
		Transaction: domain.Transaction{
			Merchant: "ABC Industry",
			Time:     "2026-02-28T21:15:00",
			Amount:   "$1,249.99",
			Category: "e-commerce",
			Source:   "alibaba.com",
			Location: "Shanghai, China",
		},
		SecurityQuestion: "What is your favorite color?",
		SecurityAnswer:   "blue",
		LastUpdated:      "2026-02-28T21:16:00Z",
	}
	if diff := cmp.Diff(want, cases[0]); diff != "" {
		t.Fatalf("first case mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "bob", cases[1].CustomerKey)
	require.Equal(t, domain.StatusConfirmedSafe, cases[1].Status)

	require.Len(t, skipped, 4)
	idx := make([]int, 0, len(skipped))
	for _, s := range skipped {
		idx = append(idx, s.Index)
	}
	require.Equal(t, []int{1, 3, 4, 5}, idx)
	require.ErrorIs(t, skipped[0], errMissingName)
	require.ErrorIs(t, skipped[1], errDuplicate)
}

func TestParse_BareArray(t *testing.T) {
	cases, skipped, err := Parse([]byte(`[{"userName":"Dan","securityQuestion":"q","securityAnswer":"a"}]`), FormatJSON)
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, cases, 1)
	require.Equal(t, domain.StatusPendingReview, cases[0].Status)
}

func TestParse_YAML(t *testing.T) {
	raw := `
fraud_cases:
  - userName: Alice
    securityQuestion: What is your favorite color?
    securityAnswer: blue
    transactionAmount: "$12.00"
  - userName: [not, a, string]
`
	cases, skipped, err := Parse([]byte(raw), FormatYAML)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, "$12.00", cases[0].Transaction.Amount)
	require.Len(t, skipped, 1)
	require.Equal(t, 1, skipped[0].Index)
}

func TestParse_MalformedDocument(t *testing.T) {
	for _, tc := range []struct {
		raw    string
		format Format
	}{
		{raw: ``, format: FormatJSON},
		{raw: `{"fraud_cases": [`, format: FormatJSON},
		{raw: `fraud_cases: {a: b}`, format: FormatYAML},
		{raw: "fraud_cases: [\n  - a\n bad", format: FormatYAML},
	} {
		_, _, err := Parse([]byte(tc.raw), tc.format)
		require.Error(t, err, tc.raw)
	}
}

func TestEncode_ReadsBack(t *testing.T) {
	in := []domain.Case{{
		CustomerKey:      "alice",
		CustomerName:     "Alice",
		Status:           domain.StatusConfirmedFraud,
		SecurityQuestion: "What is your favorite color?",
		SecurityAnswer:   "blue",
		LastUpdated:      "2026-03-01T09:30:00Z",
		OutcomeNote:      "customer denied transaction",
	}}
	for _, format := range []Format{FormatJSON, FormatYAML} {
		raw, err := Encode(in, format)
		require.NoError(t, err)
		out, skipped, err := Parse(raw, format)
		require.NoError(t, err)
		require.Empty(t, skipped)
		if diff := cmp.Diff(in, out); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", format, diff)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	require.Equal(t, FormatYAML, FormatFromPath("cases.YML"))
	require.Equal(t, FormatYAML, FormatFromPath("shared-data/cases.yaml"))
	require.Equal(t, FormatJSON, FormatFromPath("shared-data/fraud_cases.json"))
	require.Equal(t, FormatJSON, FormatFromPath("snapshot"))
}
