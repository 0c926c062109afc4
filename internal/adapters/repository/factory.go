package repository

import "fmt"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open returns the store for driver. path is used by the sqlite driver.
func Open(driver, path string, opts ...Option) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return NewSQLiteStore(path, opts...)
	default:
		return nil, fmt.Errorf("%q: %w", driver, ErrUnknownDriver)
	}
}
