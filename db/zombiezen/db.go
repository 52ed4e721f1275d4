package zombiezen

import (
	"fmt"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/margdarshak/margdarshak/db"
)

// Db implements the application's database interfaces on top of a
// zombiezen sqlitex.Pool.
type Db struct {
	pool *sqlitex.Pool
}

// Verify interface implementations
var _ db.DbAuth = (*Db)(nil)
var _ db.DbQueue = (*Db)(nil)
var _ db.DbOrders = (*Db)(nil)

// New creates a new Db instance using an existing pool provided by the
// caller. The lifecycle of the pool is managed externally; this type does
// not close it.
func New(pool *sqlitex.Pool) (*Db, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Db{pool: pool}, nil
}
