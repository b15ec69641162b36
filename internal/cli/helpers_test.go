package cli_test

import (
	"os"
	"strings"
	"testing"

	"github.com/calvinalkan/yahtl/internal/cli"
)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

// newHome returns a CLI with a "home" list.
func newHome(t *testing.T) *cli.CLI {
	t.Helper()

	c := cli.NewCLI(t)
	c.MustRun("list-create", "home", "--name", "Home")

	return c
}

// lines splits output into lines, dropping empty ones.
func lines(s string) []string {
	var out []string

	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			out = append(out, l)
		}
	}

	return out
}
