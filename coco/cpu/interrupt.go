package cpu

// InterruptType is one of the 6809's seven interrupt/reset sources, each
// with its own vector and stacking behavior.
type InterruptType int

const (
	Reset InterruptType = iota
	Nmi
	Firq
	Irq
	Swi
	Swi2
	Swi3
)

// Vector returns the address, in the top-of-memory vector table, holding
// the address of this interrupt's service routine.
func (t InterruptType) Vector() uint16 {
	switch t {
	case Reset:
		return 0xFFFE
	case Nmi:
		return 0xFFFC
	case Swi:
		return 0xFFFA
	case Irq:
		return 0xFFF8
	case Firq:
		return 0xFFF6
	case Swi2:
		return 0xFFF4
	case Swi3:
		return 0xFFF2
	}
	return 0
}

func (t InterruptType) String() string {
	switch t {
	case Reset:
		return "Reset"
	case Nmi:
		return "Nmi"
	case Firq:
		return "Firq"
	case Irq:
		return "Irq"
	case Swi:
		return "Swi"
	case Swi2:
		return "Swi2"
	case Swi3:
		return "Swi3"
	}
	return "Unknown"
}
