package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fraud-alert-agent/internal/domain"
)

func mkCase(key string, status domain.CaseStatus, amount, updated string) domain.Case {
	return domain.Case{
		CustomerKey: key,
		Status:      status,
		Transaction: domain.Transaction{Amount: amount},
		LastUpdated: updated,
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "$1,249.99", want: 1249.99, ok: true},
		{in: " 12 ", want: 12, ok: true},
		{in: "$ 1 000", want: 1000, ok: true},
		{in: "", ok: false},
		{in: "twelve dollars", ok: false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.InDelta(t, tc.want, got, 0.001)
	}
}

func TestSummarize(t *testing.T) {
	st := Summarize([]domain.Case{
		mkCase("a", domain.StatusPendingReview, "$1,249.99", ""),
		mkCase("b", domain.StatusConfirmedFraud, "$1000.00", ""),
		mkCase("c", domain.StatusConfirmedFraud, "$5,000", ""),
		mkCase("d", domain.StatusConfirmedSafe, "n/a", ""),
	})
	require.Equal(t, 4, st.Total)
	require.Equal(t, 1, st.ByStatus[domain.StatusPendingReview])
	require.Equal(t, 2, st.ByStatus[domain.StatusConfirmedFraud])
	require.Equal(t, 1, st.ByStatus[domain.StatusConfirmedSafe])
	require.Equal(t, 2, st.HighValue)
	require.Equal(t, 1, st.Unparsed)

	empty := Summarize(nil)
	require.Zero(t, empty.Total)
	require.Contains(t, empty.ByStatus, domain.StatusPendingReview)
}

func TestFilterByStatus(t *testing.T) {
	all := []domain.Case{
		mkCase("a", domain.StatusPendingReview, "", ""),
		mkCase("b", domain.StatusConfirmedSafe, "", ""),
	}
	require.Len(t, FilterByStatus(all, ""), 2)
	got := FilterByStatus(all, domain.StatusConfirmedSafe)
	require.Len(t, got, 1)
	require.Equal(t, "b", got[0].CustomerKey)
}

func TestSortNewestFirst(t *testing.T) {
	cases := []domain.Case{
		mkCase("old", domain.StatusPendingReview, "", "2026-01-01T00:00:00Z"),
		mkCase("zz-unknown", domain.StatusPendingReview, "", "yesterday"),
		mkCase("new", domain.StatusPendingReview, "", "2026-03-01T09:30:00Z"),
		mkCase("naive", domain.StatusPendingReview, "", "2026-02-01T10:00:00"),
		mkCase("aa-unknown", domain.StatusPendingReview, "", ""),
	}
	SortNewestFirst(cases)

	keys := make([]string, 0, len(cases))
	for _, fc := range cases {
		keys = append(keys, fc.CustomerKey)
	}
	require.Equal(t, []string{"new", "naive", "old", "aa-unknown", "zz-unknown"}, keys)
}

func TestMaskSecret(t *testing.T) {
	require.Equal(t, "b***", MaskSecret("blue"))
	require.Equal(t, "*", MaskSecret("x"))
	require.Equal(t, "", MaskSecret("  "))
}
