package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearledger/reconciliation-backend/internal/domain/ledger"
	"github.com/clearledger/reconciliation-backend/internal/domain/matcher"
	"github.com/clearledger/reconciliation-backend/internal/domain/scoring"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
)

func int64Ptr(v int64) *int64 { return &v }

func testStatement() statement.Statement {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	return statement.Statement{
		PeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Transactions: []statement.Transaction{
			{ID: "tx1", Date: day, Description: "Amazon Purchase", Amount: -5000},
			{ID: "tx2", Date: day, Description: "Customer Deposit", Amount: 12000},
		},
	}
}

func testSession() *Session {
	return New("co1", "acct-bank", testStatement(), int64Ptr(100000), int64Ptr(107000))
}

func matchResult(statementID, entryID string) *matcher.Result {
	return &matcher.Result{
		Matches: []matcher.Candidate{
			{StatementID: statementID, EntryID: entryID, Confidence: scoring.ConfidenceExact, Score: 95},
		},
	}
}

func TestNew_Defaults(t *testing.T) {
	s := testSession()

	assert.NotEmpty(t, s.ID)
	assert.NotEmpty(t, s.Version)
	assert.Equal(t, StatusDraft, s.Status)
	assert.False(t, s.FirstReconciliation)
	assert.Empty(t, s.MatchedEntryIDs)
}

func TestNew_FirstReconciliationWithoutOpeningBalance(t *testing.T) {
	s := New("co1", "acct-bank", testStatement(), nil, int64Ptr(107000))

	assert.True(t, s.FirstReconciliation)
}

func TestApplyMatches_MarksTransactions(t *testing.T) {
	s := testSession()

	err := s.ApplyMatches(matchResult("tx1", "e1"))

	require.NoError(t, err)
	assert.True(t, s.Statement.Transactions[0].Matched)
	assert.Equal(t, "e1", s.Statement.Transactions[0].MatchedEntryID)
	assert.False(t, s.Statement.Transactions[1].Matched)
	assert.Equal(t, []string{"e1"}, s.MatchedEntryIDs)
}

func TestApplyMatches_Idempotent(t *testing.T) {
	s := testSession()
	result := matchResult("tx1", "e1")
	require.NoError(t, s.ApplyMatches(result))
	firstIDs := append([]string(nil), s.MatchedEntryIDs...)

	// Applying the identical result again changes nothing but the version.
	err := s.ApplyMatches(result)

	require.NoError(t, err)
	assert.Equal(t, firstIDs, s.MatchedEntryIDs)
	assert.True(t, s.Statement.Transactions[0].Matched)
	assert.False(t, s.Statement.Transactions[1].Matched)
}

func TestApplyMatches_ReplacesWholesale(t *testing.T) {
	s := testSession()
	require.NoError(t, s.ApplyMatches(matchResult("tx1", "e1")))

	// A second run with a different outcome must fully supersede the first.
	err := s.ApplyMatches(matchResult("tx2", "e2"))

	require.NoError(t, err)
	assert.False(t, s.Statement.Transactions[0].Matched)
	assert.True(t, s.Statement.Transactions[1].Matched)
	assert.Equal(t, []string{"e2"}, s.MatchedEntryIDs)
}

func TestApplyMatches_MultiMatchParticipants(t *testing.T) {
	s := testSession()
	result := &matcher.Result{
		MultiMatches: []matcher.MultiMatch{
			{
				StatementIDs: []string{"tx2"},
				EntryIDs:     []string{"e1", "e2"},
				Kind:         matcher.KindSplitDeposit,
				Confidence:   scoring.ConfidenceMedium,
			},
		},
	}

	err := s.ApplyMatches(result)

	require.NoError(t, err)
	tx := s.Statement.Transactions[1]
	assert.True(t, tx.Matched)
	assert.Empty(t, tx.MatchedEntryID) // no single counterpart to link
	assert.Equal(t, []string{"e1", "e2"}, s.MatchedEntryIDs)
}

func TestAddManualMatch_RejectsAlreadyMatched(t *testing.T) {
	s := testSession()
	require.NoError(t, s.AddManualMatch("tx1", "e1"))

	err := s.AddManualMatch("tx1", "e2")

	assert.ErrorIs(t, err, ErrAlreadyMatched)
	assert.Equal(t, "e1", s.Statement.Transactions[0].MatchedEntryID)
}

func TestRemoveMatchThenRematch(t *testing.T) {
	s := testSession()
	require.NoError(t, s.AddManualMatch("tx1", "e1"))

	require.NoError(t, s.RemoveMatch("tx1"))
	err := s.AddManualMatch("tx1", "e2")

	require.NoError(t, err)
	assert.Equal(t, "e2", s.Statement.Transactions[0].MatchedEntryID)
	assert.Equal(t, []string{"e2"}, s.MatchedEntryIDs)
}

func TestAddManualMatch_UnknownTransaction(t *testing.T) {
	s := testSession()

	err := s.AddManualMatch("tx-missing", "e1")

	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestComplete_SecondCallRejected(t *testing.T) {
	s := testSession()
	require.NoError(t, s.Complete(nil))

	err := s.Complete(nil)

	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestTerminalSessionRejectsMutation(t *testing.T) {
	s := testSession()
	require.NoError(t, s.Abandon())

	assert.ErrorIs(t, s.ApplyMatches(matchResult("tx1", "e1")), ErrSessionClosed)
	assert.ErrorIs(t, s.AddManualMatch("tx1", "e1"), ErrSessionClosed)
	assert.ErrorIs(t, s.RemoveMatch("tx1"), ErrSessionClosed)
	assert.ErrorIs(t, s.Complete(nil), ErrSessionClosed)
	assert.ErrorIs(t, s.Abandon(), ErrSessionClosed)
}

func TestCalculateDiscrepancy_Balanced(t *testing.T) {
	// Statement moved +7000; one matched entry debits the bank account 7000.
	s := testSession()
	entries := []ledger.Entry{
		{
			ID:     "e1",
			Status: ledger.StatusPosted,
			Lines: []ledger.Line{
				{AccountID: "acct-bank", Debit: 7000},
				{AccountID: "acct-revenue", Credit: 7000},
			},
		},
	}

	discrepancy := s.CalculateDiscrepancy(entries, "acct-bank")

	assert.Equal(t, int64(0), discrepancy)
	assert.Equal(t, int64(0), s.Discrepancy)
}

func TestCalculateDiscrepancy_Unbalanced(t *testing.T) {
	s := testSession()
	entries := []ledger.Entry{
		{
			ID:     "e1",
			Status: ledger.StatusPosted,
			Lines: []ledger.Line{
				{AccountID: "acct-bank", Debit: 4500},
				{AccountID: "acct-revenue", Credit: 4500},
			},
		},
	}

	discrepancy := s.CalculateDiscrepancy(entries, "acct-bank")

	assert.Equal(t, int64(2500), discrepancy)
}

func TestCalculateDiscrepancy_MissingBalanceIsZero(t *testing.T) {
	s := New("co1", "acct-bank", testStatement(), nil, int64Ptr(107000))
	s.Discrepancy = 999 // stale value must be cleared

	discrepancy := s.CalculateDiscrepancy(nil, "acct-bank")

	assert.Equal(t, int64(0), discrepancy)
	assert.Equal(t, int64(0), s.Discrepancy)
}

func TestTransactionsToReconcile_OnlyWhenCompleted(t *testing.T) {
	s := testSession()
	require.NoError(t, s.AddManualMatch("tx1", "e1"))

	_, err := s.TransactionsToReconcile()
	assert.ErrorIs(t, err, ErrNotCompleted)

	require.NoError(t, s.Complete(nil))

	ids, err := s.TransactionsToReconcile()
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, ids)
}

func TestVersionChangesOnMutation(t *testing.T) {
	s := testSession()
	before := s.Version

	require.NoError(t, s.AddManualMatch("tx1", "e1"))

	assert.NotEqual(t, before, s.Version)
}

func TestSummary_EmptyStatementMatchRate(t *testing.T) {
	stmt := testStatement()
	stmt.Transactions = nil
	s := New("co1", "acct-bank", stmt, int64Ptr(0), int64Ptr(0))

	summary := s.Summary()

	assert.Equal(t, 0.0, summary.MatchRate) // zero, not NaN
	assert.Equal(t, 0, summary.TotalTransactions)
	assert.True(t, summary.IsBalanced)
}

func TestSummary_BalancedWithinTolerance(t *testing.T) {
	s := testSession()
	require.NoError(t, s.AddManualMatch("tx1", "e1"))
	s.Discrepancy = -BalancedTolerance

	summary := s.Summary()

	assert.Equal(t, 1, summary.MatchedTransactions)
	assert.InDelta(t, 50.0, summary.MatchRate, 0.001)
	assert.True(t, summary.IsBalanced)

	s.Discrepancy = BalancedTolerance + 1
	assert.False(t, s.Summary().IsBalanced)
}
