package pattern

// Chain applies its operations in order, each one seeing the output of the
// previous.
type Chain []Op

// Apply runs every operation of the chain over b.
func (c Chain) Apply(b Buffer) Buffer {
	for _, op := range c {
		b = op.Apply(b)
	}
	return b
}

// Noop returns its input unchanged.
var Noop Op = OpFunc(func(b Buffer) Buffer { return b })

// Loop is a bounded fixed-point: Init runs once, Body runs while Cond holds,
// then Finalize runs once.
//
// Body must strictly reduce whatever Cond looks for. As a backstop the loop
// never iterates more often than the buffer had code points after Init.
type Loop struct {
	Init     Op
	Cond     Matcher
	Body     Op
	Finalize Op
}

// Apply runs the loop over b.
func (l Loop) Apply(b Buffer) Buffer {
	b = orNoop(l.Init).Apply(b)
	for limit := len(b) + 1; limit > 0 && l.Cond.Match(b); limit-- {
		b = l.Body.Apply(b)
	}
	return orNoop(l.Finalize).Apply(b)
}

func orNoop(op Op) Op {
	if op == nil {
		return Noop
	}
	return op
}
