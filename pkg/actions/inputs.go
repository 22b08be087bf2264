package actions

import (
	"strings"
)

// IsWorkflow reports whether the process runs inside a GitHub Actions job.
func IsWorkflow(getenv func(string) string) bool {
	return getenv("GITHUB_ACTIONS") == "true"
}

// GetInput returns the value of an action input, which the runner passes as
// INPUT_<NAME> with spaces replaced by underscores.
func GetInput(getenv func(string) string, name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))

	return strings.TrimSpace(getenv(key))
}
