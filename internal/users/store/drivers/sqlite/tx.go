package sqlite

import (
	"database/sql"

	"github.com/midgarden/userd/internal/users/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Users() store.Users { return &usersRepo{q: t.tx} }
