package vm

// Push and Pop are the stack primitive: the stack shares linear memory with
// everything else and grows toward lower addresses. Push decrements esp by
// one word and stores there; Pop loads from esp and increments it. Neither
// checks for overflow/underflow unless m.Debug is set; the architecture
// leaves that check up to the program, with a debug-mode bound check as an
// optional aid.

func (m *Machine) Push(value int32) error {
	esp := m.Registers[RegESP] - wordSize
	if m.Debug && esp < 0 {
		return &RuntimeFault{Op: "push", Msg: "stack overflow"}
	}
	m.Registers[RegESP] = esp
	return m.writeWord(esp, value)
}

func (m *Machine) Pop() (int32, error) {
	esp := m.Registers[RegESP]
	if m.Debug && esp+wordSize > int32(len(m.Memory)) {
		return 0, &RuntimeFault{Op: "pop", Msg: "stack underflow"}
	}
	v, err := m.readWord(esp)
	if err != nil {
		return 0, err
	}
	m.Registers[RegESP] = esp + wordSize
	return v, nil
}
