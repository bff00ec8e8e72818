// Package testing is imported for its side effects by tests that build the
// HTTP stack: it flags the process as a test run and points the catalog
// client at an address nothing listens on.
package testing

import "os"

func init() {
	defaults := map[string]string{
		"CATALOGO_TEST_MODE": "1",
		"CATALOG_API_URL":    "http://127.0.0.1:1",
	}
	for key, value := range defaults {
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
