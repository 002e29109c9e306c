package vm

// Opcode is the numeric tag stored in Program.Code. The numeric assignment
// below is fixed, since it's the one piece of the format any external tool
// (disassembler, future persisted form) would need to agree on.
type Opcode int8

const (
	OpNop Opcode = 0x00
	OpInt Opcode = 0x01 // reserved, unimplemented; treated as nop
	OpMov Opcode = 0x02

	OpPush  Opcode = 0x03
	OpPop   Opcode = 0x04
	OpPushf Opcode = 0x05
	OpPopf  Opcode = 0x06

	OpInc Opcode = 0x07
	OpDec Opcode = 0x08

	OpAdd Opcode = 0x09
	OpSub Opcode = 0x0A
	OpMul Opcode = 0x0B
	OpDiv Opcode = 0x0C
	OpMod Opcode = 0x0D
	OpRem Opcode = 0x0E

	OpNot Opcode = 0x0F
	OpXor Opcode = 0x10
	OpOr  Opcode = 0x11
	OpAnd Opcode = 0x12
	OpShl Opcode = 0x13
	OpShr Opcode = 0x14

	OpCmp Opcode = 0x15

	OpJmp  Opcode = 0x16
	OpCall Opcode = 0x17
	OpRet  Opcode = 0x18

	OpJe  Opcode = 0x19
	OpJne Opcode = 0x1A
	OpJg  Opcode = 0x1B
	OpJge Opcode = 0x1C
	OpJl  Opcode = 0x1D
	OpJle Opcode = 0x1E

	OpPrn Opcode = 0x1F

	// opSentinel terminates the opcode stream. The builder appends it after
	// the last real instruction; it never comes from a source line, and
	// the main loop stops the moment it fetches one.
	opSentinel Opcode = -1
)

var mnemonics = map[string]Opcode{
	"nop": OpNop, "int": OpInt, "mov": OpMov,
	"push": OpPush, "pop": OpPop, "pushf": OpPushf, "popf": OpPopf,
	"inc": OpInc, "dec": OpDec,
	"add": OpAdd, "sub": OpSub, "mul": OpMul, "div": OpDiv, "mod": OpMod, "rem": OpRem,
	"not": OpNot, "xor": OpXor, "or": OpOr, "and": OpAnd, "shl": OpShl, "shr": OpShr,
	"cmp": OpCmp,
	"jmp": OpJmp, "call": OpCall, "ret": OpRet,
	"je": OpJe, "jne": OpJne, "jg": OpJg, "jge": OpJge, "jl": OpJl, "jle": OpJle,
	"prn": OpPrn,
}

// arity gives the fixed operand count per opcode.
var arity = map[Opcode]int{
	OpNop: 0, OpPushf: 0, OpRet: 0,
	OpInt: 0, // reserved opcode, treated as nop
	OpPush: 1, OpPop: 1, OpPopf: 1, OpInc: 1, OpDec: 1, OpRem: 1, OpNot: 1,
	OpJmp: 1, OpCall: 1, OpJe: 1, OpJne: 1, OpJg: 1, OpJge: 1, OpJl: 1, OpJle: 1, OpPrn: 1,
	OpMov: 2, OpAdd: 2, OpSub: 2, OpMul: 2, OpDiv: 2, OpMod: 2,
	OpXor: 2, OpOr: 2, OpAnd: 2, OpShl: 2, OpShr: 2, OpCmp: 2,
}

func (o Opcode) String() string {
	for name, code := range mnemonics {
		if code == o {
			return name
		}
	}
	if o == opSentinel {
		return "<sentinel>"
	}
	return "<invalid opcode>"
}

// lookupMnemonic resolves an identifier to its opcode, reporting ok=false
// for an unknown mnemonic; the caller turns that into ErrUnknownOpcode.
func lookupMnemonic(name string) (Opcode, bool) {
	op, ok := mnemonics[name]
	return op, ok
}
