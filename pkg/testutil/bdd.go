package testutil

import "testing"

// Clause runs one scenario step as a nested subtest named "<keyword> <desc>",
// so processor and propagation scenarios read top-down in -v output.
type Clause func(t *testing.T, desc string, fn func(t *testing.T)) bool

func clause(keyword string) Clause {
	return func(t *testing.T, desc string, fn func(t *testing.T)) bool {
		t.Helper()
		return t.Run(keyword+" "+desc, fn)
	}
}

var (
	Given = clause("Given")
	When  = clause("When")
	Then  = clause("Then")
	And   = clause("And")
)

// Scenario groups clauses under a named parent.
func Scenario(t *testing.T, name string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run("Scenario: "+name, fn)
}
