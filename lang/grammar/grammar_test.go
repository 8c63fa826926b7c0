package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF verifies that leaf.ebnf -- the surface grammar lang/scanner and
// lang/parser implement by hand -- is itself well-formed: every production
// it references is defined, and every production is reachable from File.
// It does not exercise the hand-written parser; that's parser_test.go's
// job.
func TestEBNF(t *testing.T) {
	f, err := os.Open("leaf.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("leaf.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "File"); err != nil {
		t.Fatal(err)
	}
}
