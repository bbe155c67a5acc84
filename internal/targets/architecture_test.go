package targets_test

import (
	"testing"

	"eaccore/testutil"
)

func TestNoDriverImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.DriverImportForbidden, "internal/targets must stay driver-agnostic")
}
