package reactive

// valueKey is the key a Cell tracks and triggers under its handle.
const valueKey = "value"

// Cell is a reactive value. Reading it with Get inside an effect subscribes
// that effect; Set stores the value and re-runs every subscriber.
type Cell[T any] struct {
	rt     *Runtime
	handle Handle
	value  T
}

// NewCell returns a cell holding initial.
func NewCell[T any](rt *Runtime, initial T) *Cell[T] {
	return &Cell[T]{rt: rt, handle: rt.NewHandle(), value: initial}
}

// Get returns the current value and tracks the read.
func (c *Cell[T]) Get() T {
	c.rt.Track(c.handle, valueKey)
	return c.value
}

// Peek returns the current value without tracking.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set stores v and triggers subscribers. It triggers even when v equals the
// previous value.
func (c *Cell[T]) Set(v T) {
	c.value = v
	c.rt.Trigger(c.handle, valueKey)
}

// Update applies fn to the current value and stores the result.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.value))
}

// Handle returns the cell's tracking handle.
func (c *Cell[T]) Handle() Handle {
	return c.handle
}

// Computed returns a cell kept equal to getter's latest result. The getter
// runs once immediately and again whenever any value it read is triggered.
// Reading the returned cell never recomputes; the value is pushed.
func Computed[T any](rt *Runtime, getter func() T) *Cell[T] {
	var zero T
	result := NewCell(rt, zero)
	rt.Effect(func() {
		result.Set(getter())
	})
	return result
}
