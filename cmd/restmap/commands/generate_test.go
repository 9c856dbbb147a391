package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupGenerateFlags(t *testing.T) {
	fs, flags := SetupGenerateFlags()
	assert.Equal(t, "resources", flags.Package)
	assert.Empty(t, flags.Output)

	require.NoError(t, fs.Parse([]string{"-p", "shop", "-o", "out.go", "-resources", "product"}))
	assert.Equal(t, "shop", flags.Package)
	assert.Equal(t, "out.go", flags.Output)
	assert.Equal(t, "product", flags.Resources)
}

func TestHandleGenerate_Stdout(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, HandleGenerate([]string{"-schema", writeSchema(t, shopSchema), "-p", "shop"}))

	src := out.String()
	assert.Contains(t, src, "// Code generated by restmap generate. DO NOT EDIT.")
	assert.Contains(t, src, "package shop")
	assert.Contains(t, src, "func NewProduct(")
	assert.Contains(t, src, "func NewDesigner(")
	assert.Contains(t, src, "GetDesigners(")
}

func TestHandleGenerate_File(t *testing.T) {
	_, errOut := captureOutput(t)
	path := filepath.Join(t.TempDir(), "shop", "resources_gen.go")

	require.NoError(t, HandleGenerate([]string{"-schema", writeSchema(t, shopSchema), "-p", "shop", "-o", path, "-resources", "designer"}))

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(src), "func NewDesigner(")
	assert.NotContains(t, string(src), "func NewProduct(")
	assert.Contains(t, errOut.String(), "Generated 1 resource(s)")
}

func TestHandleGenerate_RejectsSymlink(t *testing.T) {
	captureOutput(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "target.go")
	require.NoError(t, os.WriteFile(target, nil, 0o600))
	link := filepath.Join(dir, "link.go")
	require.NoError(t, os.Symlink(target, link))

	err := HandleGenerate([]string{"-schema", writeSchema(t, shopSchema), "-o", link})
	assert.ErrorContains(t, err, "symlink")
}

func TestHandleGenerate_Errors(t *testing.T) {
	path := writeSchema(t, shopSchema)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{name: "missing schema", args: []string{}, contains: "-schema is required"},
		{name: "bad package", args: []string{"-schema", path, "-p", "func"}, contains: "invalid package name"},
		{name: "unknown resource", args: []string{"-schema", path, "-resources", "product,order"}, contains: "unknown resource"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			err := HandleGenerate(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestHandleMCP_Help(t *testing.T) {
	assert.NoError(t, HandleMCP([]string{"-h"}))
	assert.Error(t, HandleMCP([]string{"extra"}))
}
