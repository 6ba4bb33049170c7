package repo_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/src/internal/domain"
)

// ClientCache is the eventually-consistent projection of client identities.
// Upsert is called only by the event-feed consumer; lookups never block on an
// unreachable store and report infrastructure failures as absent.
type ClientCache interface {
	Upsert(ctx context.Context, record domain.ClientRecord) error
	GetByID(ctx context.Context, id int64) (domain.ClientRecord, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// FindIDByName resolves an exact, case-sensitive display-name match. More
	// than one match fails with commons.ErrAmbiguousClientName.
	FindIDByName(ctx context.Context, name string) (int64, error)
	FindIDByIdentification(ctx context.Context, identification string) (int64, error)
}
