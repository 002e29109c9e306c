package vm

import (
	"strconv"
	"strings"

	"github.com/tvm-project/tvm/internal/token"
)

// Program is the output of the builder: parallel opcode/operand arrays
// indexed by instruction, plus the label table retained for diagnostics.
type Program struct {
	Code   []Opcode
	Args   [][]Operand
	Labels map[string]int
}

// Build runs the two-pass construction over already-lexed lines: pass 1
// resolves label addresses, pass 2 binds operands. Any parse-time error
// aborts the build before an instruction is ever executed.
func Build(lines []token.Line) (*Program, error) {
	labels, err := resolveLabels(lines)
	if err != nil {
		return nil, err
	}

	p := &Program{Labels: labels}

	for _, line := range lines {
		if len(line.Tokens) == 0 {
			continue
		}
		if line.Tokens[0].Typ == token.Label {
			continue
		}

		op, args, err := bindOperands(line, labels)
		if err != nil {
			return nil, err
		}

		p.Code = append(p.Code, op)
		p.Args = append(p.Args, args)
	}

	p.Code = append(p.Code, opSentinel)
	p.Args = append(p.Args, nil)

	return p, nil
}

// resolveLabels is pass 1: walk lines in order, maintaining instruction
// index k. A label-definition line contributes no instruction; any other
// non-empty line increments k.
func resolveLabels(lines []token.Line) (map[string]int, error) {
	labels := make(map[string]int)
	k := 0

	for _, line := range lines {
		if len(line.Tokens) == 0 {
			continue
		}

		first := line.Tokens[0]
		if first.Typ == token.Label {
			if _, dup := labels[first.Literal]; dup {
				return nil, &BuildError{Line: first.Loc.Line, Col: first.Loc.Col, File: first.Loc.Filename, Err: ErrDuplicateLabel}
			}
			labels[first.Literal] = k
			continue
		}

		k++
	}

	return labels, nil
}

// bindOperands is pass 2 for a single instruction line: classify the
// mnemonic and each operand token into a live Operand.
func bindOperands(line token.Line, labels map[string]int) (Opcode, []Operand, error) {
	mnemonicTok := line.Tokens[0]
	op, ok := lookupMnemonic(mnemonicTok.Literal)
	if !ok {
		return 0, nil, buildErr(mnemonicTok, ErrUnknownOpcode)
	}

	operandToks := line.Tokens[1:]
	wantArity := arity[op]

	args, err := classifyOperands(operandToks, labels)
	if err != nil {
		return 0, nil, err
	}

	if len(args) != wantArity {
		return 0, nil, buildErr(mnemonicTok, ErrArityError)
	}

	return op, args, nil
}

// classifyOperands turns a flat run of operand tokens into Operand values,
// consuming the bracketed `[reg+N]` form as a single memory-indirect
// operand.
func classifyOperands(toks []token.Token, labels map[string]int) ([]Operand, error) {
	var out []Operand

	for i := 0; i < len(toks); {
		tok := toks[i]

		switch tok.Typ {
		case token.LBracket:
			operand, consumed, err := classifyMemOperand(toks[i:], labels)
			if err != nil {
				return nil, err
			}
			out = append(out, operand)
			i += consumed

		case token.Number:
			v, err := parseInteger(tok.Literal)
			if err != nil {
				return nil, buildErr(tok, ErrUnknownIdentifier)
			}
			out = append(out, ImmediateOperand{Value: v})
			i++

		case token.Identifier:
			if regIdx, ok := lookupRegister(tok.Literal); ok {
				out = append(out, RegisterOperand{Index: regIdx})
			} else if target, ok := labels[tok.Literal]; ok {
				out = append(out, ImmediateOperand{Value: int32(target)})
			} else {
				return nil, buildErr(tok, ErrUnknownIdentifier)
			}
			i++

		default:
			return nil, buildErr(tok, ErrUnknownIdentifier)
		}
	}

	return out, nil
}

// classifyMemOperand parses `[reg]`, `[reg+N]`, or `[reg-N]` starting at
// toks[0] == LBracket, returning the operand and the number of tokens
// consumed.
func classifyMemOperand(toks []token.Token, labels map[string]int) (Operand, int, error) {
	if len(toks) < 2 || toks[1].Typ != token.Identifier {
		return nil, 0, buildErr(toks[0], ErrUnsupported)
	}
	regIdx, ok := lookupRegister(toks[1].Literal)
	if !ok {
		return nil, 0, buildErr(toks[1], ErrUnsupported)
	}

	i := 2
	var offset int32

	// The lexer merges a '-' immediately followed by a digit into a single
	// negative Number token (e.g. "ebx-8" -> Identifier, Number("-8")), but
	// leaves a spaced '-' or a '+' as its own token followed by a separate
	// Number. Accept either shape.
	switch {
	case i < len(toks) && (toks[i].Typ == token.Plus || toks[i].Typ == token.Minus):
		sign := int32(1)
		if toks[i].Typ == token.Minus {
			sign = -1
		}
		i++
		if i >= len(toks) || toks[i].Typ != token.Number {
			return nil, 0, buildErr(toks[i-1], ErrUnsupported)
		}
		v, err := parseInteger(toks[i].Literal)
		if err != nil {
			return nil, 0, buildErr(toks[i], ErrUnsupported)
		}
		offset = sign * v
		i++

	case i < len(toks) && toks[i].Typ == token.Number:
		v, err := parseInteger(toks[i].Literal)
		if err != nil {
			return nil, 0, buildErr(toks[i], ErrUnsupported)
		}
		offset = v
		i++
	}

	if i >= len(toks) || toks[i].Typ != token.RBracket {
		return nil, 0, buildErr(toks[0], ErrUnsupported)
	}
	i++

	return MemOperand{RegIndex: regIdx, Offset: offset}, i, nil
}

func parseInteger(lit string) (int32, error) {
	neg := strings.HasPrefix(lit, "-")
	unsigned := lit
	if neg {
		unsigned = lit[1:]
	}

	base := 10
	if strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X") {
		base = 16
		unsigned = unsigned[2:]
	}

	v, err := strconv.ParseInt(unsigned, base, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return int32(v), nil
}

func buildErr(tok token.Token, err error) *BuildError {
	return &BuildError{Line: tok.Loc.Line, Col: tok.Loc.Col, File: tok.Loc.Filename, Err: err}
}
