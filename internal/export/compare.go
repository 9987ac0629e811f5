package export

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the line based similarity ratio of committed and
// exported content in [0, 1]. Autojunk is disabled so identical content
// always scores exactly 1.
func Similarity(committed, exported string) float64 {
	m := difflib.NewMatcherWithJunk(difflib.SplitLines(committed), difflib.SplitLines(exported), false, nil)
	return m.Ratio()
}

// Differs reports whether committed and exported are not an exact match.
func Differs(committed, exported string) bool {
	return Similarity(committed, exported) < 1
}

// UnifiedDiff renders the change from committed to exported for the file at path.
func UnifiedDiff(path, committed, exported string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(committed),
		B:        difflib.SplitLines(exported),
		FromFile: path + " (on disk)",
		ToFile:   path + " (exported)",
		Context:  3,
	})
}
