package vm

import "testing"

func TestPushPop(t *testing.T) {
	m := NewMachine(64)
	top := m.Registers[RegESP]

	if err := m.Push(42); err != nil {
		t.Fatal(err)
	}
	if m.Registers[RegESP] != top-wordSize {
		t.Fatalf("esp not decremented: got %d", m.Registers[RegESP])
	}

	v, err := m.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
	if m.Registers[RegESP] != top {
		t.Fatalf("esp not restored: got %d", m.Registers[RegESP])
	}
}

func TestPushMultiple(t *testing.T) {
	m := NewMachine(64)
	m.Push(1)
	m.Push(2)
	m.Push(3)

	for _, want := range []int32{3, 2, 1} {
		got, err := m.Pop()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("want %d got %d", want, got)
		}
	}
}
