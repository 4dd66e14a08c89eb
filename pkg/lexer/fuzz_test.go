package lexer

import "testing"

func FuzzTokenize(f *testing.F) {
	seeds := []string{
		"2 + 3*4",
		"x ∈ {1,2,3}",
		"if x>0 then 1 else -1",
		"sum{xs[]}",
		"√(x²+y²)",
		"y := x*2",
		"",
		"(",
		"xs[",
		"√x",
		"∑",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		// Tokenize must never panic on arbitrary input: a malformed string is
		// always reported as an error, never a partial or silently-wrong tree.
		_, _ = Tokenize(input)
	})
}
