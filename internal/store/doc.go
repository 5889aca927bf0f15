// Package store defines the persistence interfaces and shared errors used by
// the service and API layers. Concrete implementations live in
// internal/platform/postgres.
package store
