// Package repomanager gives services a single handle for obtaining
// repositories bound to either the shared *sql.DB or an open transaction.
package repomanager

import (
	"github.com/ashishkaushik/leazzy/internal/dbx"
	"github.com/ashishkaushik/leazzy/internal/server/repositories/properties"
	"github.com/ashishkaushik/leazzy/internal/server/repositories/refreshtokens"
	"github.com/ashishkaushik/leazzy/internal/server/repositories/users"
)

// RepositoryManager hands out repositories over the given database handle.
// Passing a transaction scopes the returned repository to it.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Properties(db dbx.DBTX) properties.Repository
}

// PostgresRepositoryManager builds Postgres-backed repositories.
type PostgresRepositoryManager struct{}

var _ RepositoryManager = (*PostgresRepositoryManager)(nil)

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Properties(db dbx.DBTX) properties.Repository {
	return properties.NewPostgresRepository(db)
}

// InMemoryRepositoryManager hands out shared in-memory repositories for
// tests. The db argument is ignored; "transactions" see the same state.
type InMemoryRepositoryManager struct {
	users         *users.InMemoryRepository
	refreshTokens *refreshtokens.InMemoryRepository
	properties    *properties.InMemoryRepository
}

var _ RepositoryManager = (*InMemoryRepositoryManager)(nil)

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewInMemoryRepository(),
		refreshTokens: refreshtokens.NewInMemoryRepository(),
		properties:    properties.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) Properties(db dbx.DBTX) properties.Repository {
	return m.properties
}
