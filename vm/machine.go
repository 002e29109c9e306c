package vm

import (
	"encoding/binary"
	"os"
)

// DefaultMemorySize is the linear memory size used when the caller doesn't
// request a specific one.
const DefaultMemorySize = 2 << 20

const wordSize = 4

// FLAGS bits.
const (
	FlagEqual   = 1 << 0
	FlagGreater = 1 << 1
)

// Machine is the aggregate of register file, FLAGS, remainder, and linear
// memory. Memory is allocated zero-initialised, and esp/ebp both start one
// past the top word.
type Machine struct {
	Registers [NumRegisters]int32
	Flags     int32
	Remainder int32
	Memory    []byte

	// Debug turns stack and memory faults that are otherwise silently
	// undefined into a returned RuntimeFault.
	Debug bool

	// Out is where prn writes; NewMachine sets it to os.Stdout.
	Out writer
}

type writer interface {
	Write(p []byte) (int, error)
}

// NewMachine allocates memSize bytes of linear memory and sets up the
// stack registers.
func NewMachine(memSize int) *Machine {
	if memSize <= 0 {
		memSize = DefaultMemorySize
	}
	m := &Machine{Memory: make([]byte, memSize), Out: os.Stdout}
	top := int32(memSize)
	m.Registers[RegESP] = top
	m.Registers[RegEBP] = top
	return m
}

func (m *Machine) readWord(addr int32) (int32, error) {
	if addr < 0 || int(addr)+wordSize > len(m.Memory) {
		if m.Debug {
			return 0, &RuntimeFault{Op: "memory read", Msg: "address out of range"}
		}
		return 0, nil
	}
	return int32(binary.BigEndian.Uint32(m.Memory[addr:])), nil
}

func (m *Machine) writeWord(addr int32, v int32) error {
	if addr < 0 || int(addr)+wordSize > len(m.Memory) {
		if m.Debug {
			return &RuntimeFault{Op: "memory write", Msg: "address out of range"}
		}
		return nil
	}
	binary.BigEndian.PutUint32(m.Memory[addr:], uint32(v))
	return nil
}
