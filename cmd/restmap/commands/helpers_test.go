package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const shopSchema = `
resources:
  - name: designer
    identifier: url
    attributes: [url, name]
    base_url: http://api
    related_resources: []
  - name: product
    identifier: url
    attributes: [url, name, designer, collaborators, dimensions]
    subresources:
      dimensions: dimensions
    pagination_key: results
    base_url: http://api
    related_resources: [designer]
subresources:
  - name: dimensions
    attributes: [width, height]
`

// captureOutput redirects stdout and stderr for the duration of the test.
func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })
	return out, errOut
}

// withStdin replaces stdin with content for the duration of the test.
func withStdin(t *testing.T, content string) {
	t.Helper()
	prev := stdin
	stdin = strings.NewReader(content)
	t.Cleanup(func() { stdin = prev })
}

// writeFile writes content into the test's temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, "resources.yaml", content)
}

