package mongodb

import (
	"context"

	"github.com/hunterapp/hunterd/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner satisfies the transactional contract on a backend that only has
// per-document atomicity. fn runs directly against the live collections: an
// ingest that fails halfway can leave a term write without its quota write.
// This is the documented weaker guarantee of the document backend; the
// relational TxRunner is the one that commits both or neither.
type TxRunner struct {
	terms  *LearnedTermRepository
	quotas *SuggestionQuotaRepository
}

func NewTxRunner(db *mongo.Database) *TxRunner {
	return &TxRunner{
		terms:  NewLearnedTermRepository(db),
		quotas: NewSuggestionQuotaRepository(db),
	}
}

func (r *TxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) error {
	return fn(r)
}

func (r *TxRunner) Terms() service.TermRepository {
	return r.terms
}

func (r *TxRunner) Quotas() service.SuggestionQuotaRepository {
	return r.quotas
}
