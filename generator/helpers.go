package generator

import (
	"golang.org/x/tools/imports"
)

// formatAndFixImports formats Go source and removes unused imports.
func formatAndFixImports(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}
