// Package blob is the document object store facade. Callers depend on Store
// and pick a backend through Open; only this package imports the drivers.
package blob

import "eaccore/internal/blob/core"

type (
	Driver     = core.Driver
	PutOptions = core.PutOptions
	Info       = core.Info
	Store      = core.Store
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMinIO      = core.DriverMinIO
	DriverMemory     = core.DriverMemory
)

// ErrExists is returned by Put when the key is already taken.
var ErrExists = core.ErrExists
