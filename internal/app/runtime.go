package app

import (
	"os"
	"strconv"
)

// TestModeEnv names the variable set by the testing package. When true the
// binaries return before dialing Redis or binding a port.
const TestModeEnv = "CATALOGO_TEST_MODE"

// InTestMode reports whether TestModeEnv is set to a true value.
func InTestMode() bool {
	on, err := strconv.ParseBool(os.Getenv(TestModeEnv))
	return err == nil && on
}
