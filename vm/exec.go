package vm

import "fmt"

// Interp binds a built Program to a Machine and runs it. Machine state and
// program are constructed independently and simply co-exist for the run's
// duration; Interp owns neither.
type Interp struct {
	prog *Program
	m    *Machine

	// Budget caps the number of executed steps; 0 means unbounded. A host
	// driver can set this to bound runaway programs without the core
	// executor needing to know why.
	Budget int
}

func NewInterp(p *Program, m *Machine) *Interp {
	return &Interp{prog: p, m: m}
}

// Run executes the bound program to completion: starting at instruction 0,
// step until the terminal sentinel is reached, incrementing eip by one
// after every step. Branches write target-1 into eip so that this
// increment lands on the target.
func (in *Interp) Run() error {
	m := in.m
	m.Registers[RegEIP] = 0

	steps := 0
	for {
		eip := m.Registers[RegEIP]
		if int(eip) < 0 || int(eip) >= len(in.prog.Code) {
			return &RuntimeFault{Op: "fetch", Msg: "eip out of range"}
		}
		if in.prog.Code[eip] == opSentinel {
			return nil
		}

		if in.Budget > 0 {
			steps++
			if steps > in.Budget {
				return fmt.Errorf("instruction budget of %d exceeded", in.Budget)
			}
		}

		if err := in.step(int(eip)); err != nil {
			return err
		}

		m.Registers[RegEIP]++
	}
}

func (in *Interp) step(i int) error {
	m := in.m
	op := in.prog.Code[i]
	args := in.prog.Args[i]

	get := func(idx int) (int32, error) { return args[idx].Get(m) }
	set := func(idx int, v int32) error { return args[idx].Set(m, v) }

	switch op {
	case OpNop, OpInt:
		// OpInt (0x01) is reserved and unimplemented; it executes as a
		// documented no-op.
		return nil

	case OpMov:
		b, err := get(1)
		if err != nil {
			return err
		}
		return set(0, b)

	case OpPush:
		a, err := get(0)
		if err != nil {
			return err
		}
		return m.Push(a)

	case OpPop:
		v, err := m.Pop()
		if err != nil {
			return err
		}
		return set(0, v)

	case OpPushf:
		return m.Push(m.Flags)

	case OpPopf:
		// popf updates FLAGS from the stack top regardless of its operand.
		v, err := m.Pop()
		if err != nil {
			return err
		}
		m.Flags = v
		return nil

	case OpInc:
		a, err := get(0)
		if err != nil {
			return err
		}
		return set(0, a+1)

	case OpDec:
		a, err := get(0)
		if err != nil {
			return err
		}
		return set(0, a-1)

	case OpAdd, OpSub, OpMul:
		a, err := get(0)
		if err != nil {
			return err
		}
		b, err := get(1)
		if err != nil {
			return err
		}
		var r int32
		switch op {
		case OpAdd:
			r = a + b
		case OpSub:
			r = a - b
		case OpMul:
			r = a * b
		}
		return set(0, r)

	case OpDiv:
		a, err := get(0)
		if err != nil {
			return err
		}
		b, err := get(1)
		if err != nil {
			return err
		}
		if b == 0 {
			if m.Debug {
				return &RuntimeFault{Op: "div", Msg: "division by zero"}
			}
			return set(0, 0)
		}
		return set(0, a/b)

	case OpMod:
		a, err := get(0)
		if err != nil {
			return err
		}
		b, err := get(1)
		if err != nil {
			return err
		}
		if b == 0 {
			if m.Debug {
				return &RuntimeFault{Op: "mod", Msg: "division by zero"}
			}
			m.Remainder = 0
			return nil
		}
		m.Remainder = a % b
		return nil

	case OpRem:
		return set(0, m.Remainder)

	case OpNot:
		a, err := get(0)
		if err != nil {
			return err
		}
		return set(0, ^a)

	case OpXor, OpOr, OpAnd:
		a, err := get(0)
		if err != nil {
			return err
		}
		b, err := get(1)
		if err != nil {
			return err
		}
		var r int32
		switch op {
		case OpXor:
			r = a ^ b
		case OpOr:
			r = a | b
		case OpAnd:
			r = a & b
		}
		return set(0, r)

	case OpShl, OpShr:
		a, err := get(0)
		if err != nil {
			return err
		}
		b, err := get(1)
		if err != nil {
			return err
		}
		shift := uint32(b) & 31 // mask to [0,31]; out-of-range shift amounts are otherwise undefined
		var r int32
		if op == OpShl {
			r = a << shift
		} else {
			r = a >> shift
		}
		return set(0, r)

	case OpCmp:
		a, err := get(0)
		if err != nil {
			return err
		}
		b, err := get(1)
		if err != nil {
			return err
		}
		var flags int32
		if a == b {
			flags |= FlagEqual
		}
		if a > b {
			flags |= FlagGreater
		}
		m.Flags = flags
		return nil

	case OpJmp:
		return in.jump(get, 0)

	case OpCall:
		// Push the current eip, then fall through into jmp semantics in
		// one dispatch step.
		if err := m.Push(int32(i)); err != nil {
			return err
		}
		return in.jump(get, 0)

	case OpRet:
		target, err := m.Pop()
		if err != nil {
			return err
		}
		m.Registers[RegEIP] = target
		return nil

	case OpJe:
		return in.jumpIf(get, m.Flags&FlagEqual != 0)
	case OpJne:
		return in.jumpIf(get, m.Flags&FlagEqual == 0)
	case OpJg:
		return in.jumpIf(get, m.Flags&FlagGreater != 0)
	case OpJge:
		return in.jumpIf(get, m.Flags&(FlagEqual|FlagGreater) != 0)
	case OpJl:
		return in.jumpIf(get, m.Flags&(FlagEqual|FlagGreater) == 0)
	case OpJle:
		return in.jumpIf(get, m.Flags&FlagGreater == 0)

	case OpPrn:
		a, err := get(0)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(m.Out, a)
		return err

	default:
		return &RuntimeFault{Op: "dispatch", Msg: fmt.Sprintf("unhandled opcode %v", op)}
	}
}

// jump writes target-1 into eip so the main loop's post-increment lands
// exactly on target.
func (in *Interp) jump(get func(int) (int32, error), argIdx int) error {
	target, err := get(argIdx)
	if err != nil {
		return err
	}
	in.m.Registers[RegEIP] = target - 1
	return nil
}

func (in *Interp) jumpIf(get func(int) (int32, error), cond bool) error {
	if !cond {
		return nil
	}
	return in.jump(get, 0)
}
