// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package native

import (
	"slices"
	"sync"

	"github.com/pingcap/odbcexec/lib/util/errors"
)

var (
	ErrUnknownDriver = errors.New("unknown native driver")

	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available by name. It panics on duplicates, like
// database/sql does.
func Register(name string, d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if d == nil {
		panic("native: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("native: Register called twice for driver " + name)
	}
	drivers[name] = d
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Open connects through the named driver.
func Open(name, dsn string) (Conn, error) {
	driversMu.RLock()
	d, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDriver, "%s, registered: %v", name, Drivers())
	}
	conn, err := d.Open(dsn)
	return conn, errors.WithStack(err)
}
