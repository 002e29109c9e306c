package vm

import "fmt"

// Register indices: 0x0-0x5 general purpose, 0x6 esp, 0x7 ebp, 0x8 eip,
// 0x9-0x10 additional general purpose.
const (
	RegEAX = 0x0
	RegEBX = 0x1
	RegECX = 0x2
	RegEDX = 0x3
	RegESI = 0x4
	RegEDI = 0x5
	RegESP = 0x6
	RegEBP = 0x7
	RegEIP = 0x8
	RegR08 = 0x9
	RegR09 = 0xA
	RegR0A = 0xB
	RegR0B = 0xC
	RegR0C = 0xD
	RegR0D = 0xE
	RegR0E = 0xF
	RegR0F = 0x10

	NumRegisters = 0x11
)

// registerNames maps the reserved register identifiers to their indices.
var registerNames = map[string]int{
	"eax": RegEAX, "ebx": RegEBX, "ecx": RegECX, "edx": RegEDX,
	"esi": RegESI, "edi": RegEDI, "esp": RegESP, "ebp": RegEBP, "eip": RegEIP,
	"r08": RegR08, "r09": RegR09, "r0a": RegR0A, "r0b": RegR0B,
	"r0c": RegR0C, "r0d": RegR0D, "r0e": RegR0E, "r0f": RegR0F,
}

func lookupRegister(name string) (int, bool) {
	idx, ok := registerNames[name]
	return idx, ok
}

// registerIndexNames is the reverse of registerNames, built once for the
// disassembler's operand formatting.
var registerIndexNames = func() map[int]string {
	names := make(map[int]string, len(registerNames))
	for name, idx := range registerNames {
		names[idx] = name
	}
	return names
}()

func registerName(idx int) string {
	if name, ok := registerIndexNames[idx]; ok {
		return name
	}
	return fmt.Sprintf("r?%d", idx)
}
