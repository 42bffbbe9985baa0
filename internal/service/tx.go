package service

import "context"

// TxRepositories provides transaction-bound repositories for the learning
// loop. One Ingest call either commits its term change and its quota change
// together or commits neither.
type TxRepositories interface {
	Terms() TermRepository
	Quotas() SuggestionQuotaRepository
}

// TxRunner executes a function within a transaction. The relational backend
// runs fn inside a real database transaction; the document backend can only
// offer per-document atomicity and runs fn directly, which is a documented
// weaker guarantee of that backend.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
