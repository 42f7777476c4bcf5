package bindcheck

import (
	"go/ast"
	"go/token"
	"strings"
)

const ignoreDirective = "bindcheck:ignore"

// ignoreLines holds the lines carrying a //bindcheck:ignore comment.
type ignoreLines map[int]bool

func buildIgnoreLines(fset *token.FileSet, file *ast.File) ignoreLines {
	lines := make(ignoreLines)
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if strings.HasPrefix(text, ignoreDirective) {
				lines[fset.Position(c.Pos()).Line] = true
			}
		}
	}
	return lines
}

// covers reports whether a diagnostic on line is suppressed by a directive
// on the same line or the line above.
func (l ignoreLines) covers(line int) bool {
	return l[line] || l[line-1]
}
