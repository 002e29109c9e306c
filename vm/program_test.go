package vm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tvm-project/tvm/internal/lexer"
	"github.com/tvm-project/tvm/vm"
)

func build(t *testing.T, src string) (*vm.Program, error) {
	t.Helper()
	lines, err := lexer.FromString(src).Lines()
	require.NoError(t, err)
	return vm.Build(lines)
}

func TestBuild_DuplicateLabel(t *testing.T) {
	_, err := build(t, "L:\nnop\nL:\nnop\n")
	require.Error(t, err)
	require.True(t, errors.Is(err, vm.ErrDuplicateLabel))
}

func TestBuild_UnknownOpcode(t *testing.T) {
	_, err := build(t, "frobnicate eax\n")
	require.Error(t, err)
	require.True(t, errors.Is(err, vm.ErrUnknownOpcode))
}

func TestBuild_ArityError(t *testing.T) {
	_, err := build(t, "mov eax\n")
	require.Error(t, err)
	require.True(t, errors.Is(err, vm.ErrArityError))
}

func TestBuild_UnknownIdentifier(t *testing.T) {
	_, err := build(t, "mov eax, notathing\n")
	require.Error(t, err)
	require.True(t, errors.Is(err, vm.ErrUnknownIdentifier))
}

func TestBuild_LabelResolvesToInstructionIndex(t *testing.T) {
	prog, err := build(t, "jmp L\nnop\nL:\nprn 1\n")
	require.NoError(t, err)
	require.Equal(t, 2, prog.Labels["L"])
	require.Len(t, prog.Code, 3+1) // +1 terminal sentinel
}

func TestBuild_MemoryIndirectOperand(t *testing.T) {
	prog, err := build(t, "mov eax, [ebx+4]\nmov [ebx-4], eax\n")
	require.NoError(t, err)
	require.IsType(t, vm.MemOperand{}, prog.Args[0][1])
	require.IsType(t, vm.MemOperand{}, prog.Args[1][0])
}
