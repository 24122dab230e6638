package sentrytarget

import (
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders any value as a human-readable string.
// It is the fallback for every payload or extra that is not already text.
func Dump(v any) string {
	return strings.TrimSuffix(dumper.Sdump(v), "\n")
}
