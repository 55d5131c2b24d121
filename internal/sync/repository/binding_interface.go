package repository

import (
	syncdomain "lifedash-backend/internal/sync/domain"
)

// BindingRepository defines the interface for database-binding persistence
type BindingRepository interface {
	// Upsert creates or replaces a binding, idempotent by the composite
	// (user, database, domain, period) key
	Upsert(binding *syncdomain.Binding) error
	// FindByUserDomain resolves one user's binding for a domain (and period)
	FindByUserDomain(userID string, domainType syncdomain.DomainType, period string) (*syncdomain.Binding, error)
	// FindByDatabaseID returns every binding referencing an external database,
	// across all users and domains (webhook fan-out)
	FindByDatabaseID(databaseID string) ([]*syncdomain.Binding, error)
	// ListByUser returns all of a user's bindings
	ListByUser(userID string) ([]*syncdomain.Binding, error)
	// ListScheduled returns all bindings with sync_mode=scheduled
	ListScheduled() ([]*syncdomain.Binding, error)
	// UpdateSchema replaces the cached schema copy and display name
	UpdateSchema(binding *syncdomain.Binding) error
	// UpdateLastSync stamps a completed sync
	UpdateLastSync(binding *syncdomain.Binding) error
	// Remove disconnects a binding by composite key
	Remove(userID, databaseID string, domainType syncdomain.DomainType, period string) error
}
