package wdc

// Predicate decides whether x lies beyond y in one direction.
type Predicate interface {
	Test(x, y float64) bool
}

// Greater reports x > y + Epsilon
type Greater struct {
	Epsilon float64
}

// Test implements Predicate
func (g Greater) Test(x, y float64) bool {
	return x > y+g.Epsilon
}

// Smaller reports x < y - Epsilon
type Smaller struct {
	Epsilon float64
}

// Test implements Predicate
func (s Smaller) Test(x, y float64) bool {
	return x < y-s.Epsilon
}

// Comparison holds the predicate currently in use. The direction depends on
// the operation type and scheme, so it is re-bound on every configure.
type Comparison struct {
	method Predicate
}

// Configure replaces the bound predicate
func (c *Comparison) Configure(p Predicate) {
	c.method = p
}

// Call evaluates the bound predicate. An unconfigured comparison never fires.
func (c *Comparison) Call(x, y float64) bool {
	if c.method == nil {
		return false
	}
	return c.method.Test(x, y)
}
