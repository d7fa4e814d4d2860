package storage

import (
	"github.com/julianstephens/dosely/internal/storage/postgres"
	"github.com/julianstephens/dosely/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// New returns a postgres store for postgres:// URLs and a sqlite store for
// anything else, which is treated as a file path. Postgres URLs carrying a
// password are rejected.
func New(config string) (Provider, error) {
	if postgres.IsConnString(config) {
		if err := postgres.ValidateConnString(config); err != nil {
			return nil, err
		}
		return postgres.New(config), nil
	}
	return sqlite.NewStore(config), nil
}

// IsPostgres reports whether config selects the postgres backend.
func IsPostgres(config string) bool {
	return postgres.IsConnString(config)
}

// NewFromSecret opens postgres with a connection string read from the
// keyring or the environment, where an embedded password is allowed.
func NewFromSecret(connStr string) (Provider, error) {
	if !postgres.IsConnString(connStr) {
		return nil, postgres.ErrInvalidConnectionString
	}
	return postgres.New(connStr), nil
}
