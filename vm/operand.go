package vm

import (
	"errors"
	"fmt"
	"strconv"
)

var errImmutableOperand = errors.New("cannot write to an immediate operand")

// Operand is a mutable int-valued location the executor can read and write
// without caring whether it's backed by a register, an immediate/label
// side-table cell, or a memory word. RegisterOperand and ImmediateOperand
// are bound once at parse time; MemOperand computes its address fresh on
// every access instead of caching a raw pointer into memory that could be
// reallocated out from under it.
type Operand interface {
	Get(m *Machine) (int32, error)
	Set(m *Machine, v int32) error
}

// RegisterOperand aliases a register's storage directly.
type RegisterOperand struct{ Index int }

func (o RegisterOperand) Get(m *Machine) (int32, error) { return m.Registers[o.Index], nil }

func (o RegisterOperand) Set(m *Machine, v int32) error {
	m.Registers[o.Index] = v
	return nil
}

func (o RegisterOperand) String() string { return registerName(o.Index) }

// ImmediateOperand aliases a side-table cell holding a constant integer
// literal or a label's resolved instruction index. Writes are forbidden.
type ImmediateOperand struct{ Value int32 }

func (o ImmediateOperand) Get(m *Machine) (int32, error) { return o.Value, nil }

func (o ImmediateOperand) Set(m *Machine, v int32) error { return errImmutableOperand }

func (o ImmediateOperand) String() string { return strconv.Itoa(int(o.Value)) }

// MemOperand is the memory-indirect operand form: `[reg]`, `[reg+N]`,
// `[reg-N]`. The address is computed at execution time as reg + Offset,
// not bound once at parse time.
type MemOperand struct {
	RegIndex int
	Offset   int32
}

func (o MemOperand) address(m *Machine) int32 { return m.Registers[o.RegIndex] + o.Offset }

func (o MemOperand) Get(m *Machine) (int32, error) { return m.readWord(o.address(m)) }

func (o MemOperand) Set(m *Machine, v int32) error { return m.writeWord(o.address(m), v) }

func (o MemOperand) String() string {
	switch {
	case o.Offset == 0:
		return fmt.Sprintf("[%s]", registerName(o.RegIndex))
	case o.Offset > 0:
		return fmt.Sprintf("[%s+%d]", registerName(o.RegIndex), o.Offset)
	default:
		return fmt.Sprintf("[%s-%d]", registerName(o.RegIndex), -o.Offset)
	}
}
