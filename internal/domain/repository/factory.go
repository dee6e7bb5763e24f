package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Policies() PolicyRepository
	Customers() CustomerRepository
	Ledger() LedgerRepository
	Transactions() TransactionRepository
}
