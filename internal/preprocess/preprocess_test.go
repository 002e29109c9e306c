package preprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpand_Define(t *testing.T) {
	src := "%define COUNT 10\nmov eax, COUNT\n"
	out, err := expand(src, ".", map[string]string{})
	require.NoError(t, err)
	require.Equal(t, "\nmov eax, 10\n", out)
}

func TestExpand_DuplicateDefineMismatch(t *testing.T) {
	src := "%define COUNT 10\n%define COUNT 20\n"
	_, err := expand(src, ".", map[string]string{})
	require.Error(t, err)
	var dup *DuplicateDefineError
	require.ErrorAs(t, err, &dup)
}

func TestExpand_DuplicateDefineSameValueOK(t *testing.T) {
	src := "%define COUNT 10\n%define COUNT 10\nmov eax, COUNT\n"
	out, err := expand(src, ".", map[string]string{})
	require.NoError(t, err)
	require.Equal(t, "\n\nmov eax, 10\n", out)
}

func TestExpand_Include(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "consts.inc"), []byte("%define LIMIT 5\n"), 0o644))

	main := filepath.Join(dir, "main.vm")
	require.NoError(t, os.WriteFile(main, []byte("%include \"consts.inc\"\nmov eax, LIMIT\n"), 0o644))

	out, err := File(main)
	require.NoError(t, err)
	require.Contains(t, out, "mov eax, 5")
}

func TestFile_ImplicitVMExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.vm")
	require.NoError(t, os.WriteFile(path, []byte("nop\n"), 0o644))

	out, err := File(filepath.Join(dir, "prog"))
	require.NoError(t, err)
	require.Equal(t, "nop\n", out)
}
