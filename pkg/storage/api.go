package storage

// LedgerStore is everything the balance ledger needs: the authoritative state it re-reads
// before each attempt, creation of zero-balance records, and the transactional commit.
type LedgerStore interface {
	GroupStore
	FriendStore
	LedgerWriter
}

// BalanceReader is the read-only view used for net position rollups.
type BalanceReader interface {
	GroupReader
	FriendReader
}

// ApiStore defines the complete set of operations needed by the HTTP API.
type ApiStore interface {
	LedgerStore
	ExpenseReader
}
