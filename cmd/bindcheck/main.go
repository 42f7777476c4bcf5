// Command bindcheck is a linter that checks supplier bindings are released.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/evinism/supplier/analysis/bindcheck"
)

func main() {
	singlechecker.Main(bindcheck.Analyzer)
}
