package database

import (
	"github.com/jackc/pgx/v5"
)

// A transaction must be usable wherever a Querier is expected, so writes
// that span tables (the default-account flip and its settings pointer) can
// run atomically through InTransaction.
var _ Querier = (pgx.Tx)(nil)
