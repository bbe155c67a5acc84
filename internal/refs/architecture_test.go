package refs_test

import (
	"testing"

	"eaccore/testutil"
)

func TestNoDriverImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.DriverImportForbidden, "internal/refs must stay driver-agnostic")
}
