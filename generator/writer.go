package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

// readableByAll is the file mode for generated source.
const readableByAll os.FileMode = 0o644

// WriteFile writes generated source to path, creating parent directories.
func WriteFile(path string, src []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("generator: failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, src, readableByAll); err != nil {
		return fmt.Errorf("generator: failed to write file: %w", err)
	}
	return nil
}
