package session

import "errors"

// Session misuse fails loudly with typed errors. The messages are worded
// supportively on purpose: they surface directly in a financial tool and
// the tone is a tested product requirement, not decoration.
var (
	// ErrAlreadyMatched is returned when a statement line already carries an
	// active match.
	ErrAlreadyMatched = errors.New("this item is already matched. Remove the existing match first if you'd like to change it")

	// ErrTransactionNotFound is returned when a statement line id is not in
	// the session's snapshot.
	ErrTransactionNotFound = errors.New("we couldn't find that transaction in this statement")

	// ErrSessionClosed is returned when a mutation is attempted on a session
	// already completed or abandoned.
	ErrSessionClosed = errors.New("this reconciliation has already been closed and can't be changed anymore")

	// ErrNotCompleted is returned when completion-only data is read before
	// the session completes.
	ErrNotCompleted = errors.New("this reconciliation isn't finished yet, so there's nothing to send back to the ledger")
)
