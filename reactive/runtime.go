// Package reactive is a small fine-grained reactivity runtime.
//
// A [Runtime] records which effects read which (handle, key) pairs and re-runs
// those effects when the pair is triggered. Everything is synchronous: an
// effect runs to completion inside [Runtime.Effect] or [Runtime.Trigger], and
// nested triggers propagate depth-first before the outer call returns. There
// is no batching and no scheduler.
//
//	rt := reactive.NewRuntime()
//	a := reactive.NewCell(rt, 1)
//	b := reactive.NewCell(rt, 2)
//	sum := reactive.Computed(rt, func() int { return a.Get() + b.Get() })
//	a.Set(5) // sum.Peek() == 7
//
// A Runtime is not safe for concurrent use.
package reactive

import (
	"fmt"
	"slices"
)

// MaxDepth bounds how many effects may be running at once. Exceeding it
// almost always means a dependency cycle, such as a computed that reads its
// own cell.
const MaxDepth = 1000

// Handle identifies a tracked object. Handles are issued by [Runtime.NewHandle]
// and are never reused within one Runtime.
type Handle uint64

// Effect is a registered computation. It re-runs wholesale every time one of
// the values it read during its last run is triggered.
type Effect struct {
	id       uint64
	fn       func()
	rt       *Runtime
	deps     []dep
	disposed bool
}

type dep struct {
	h   Handle
	key any
}

// subscribers is an insertion-ordered set of effects.
type subscribers struct {
	list []*Effect
}

// add appends e unless it is already present, in which case e keeps its
// position.
func (s *subscribers) add(e *Effect) {
	if slices.Contains(s.list, e) {
		return
	}
	s.list = append(s.list, e)
}

func (s *subscribers) remove(e *Effect) {
	for i, x := range s.list {
		if x == e {
			copy(s.list[i:], s.list[i+1:])
			s.list[len(s.list)-1] = nil
			s.list = s.list[:len(s.list)-1]
			return
		}
	}
}

// Runtime owns the subscriber registry and the stack of running effects.
type Runtime struct {
	registry map[Handle]map[any]*subscribers
	stack    []*Effect
	handles  uint64
	effects  uint64
}

// NewRuntime returns an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{registry: make(map[Handle]map[any]*subscribers)}
}

// NewHandle issues a fresh handle for a tracked object.
func (rt *Runtime) NewHandle() Handle {
	rt.handles++
	return Handle(rt.handles)
}

// Release drops every subscription recorded for h. Call it when the object
// behind h goes away.
func (rt *Runtime) Release(h Handle) {
	keys, ok := rt.registry[h]
	if !ok {
		return
	}
	for key, subs := range keys {
		for _, e := range subs.list {
			e.forget(h, key)
		}
	}
	delete(rt.registry, h)
}

// Current returns the effect whose reads are being tracked, or nil.
func (rt *Runtime) Current() *Effect {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// Track subscribes the running effect to (h, key). It is a no-op when no
// effect is running.
func (rt *Runtime) Track(h Handle, key any) {
	e := rt.Current()
	if e == nil || e.disposed {
		return
	}
	keys, ok := rt.registry[h]
	if !ok {
		keys = make(map[any]*subscribers)
		rt.registry[h] = keys
	}
	subs, ok := keys[key]
	if !ok {
		subs = &subscribers{}
		keys[key] = subs
	}
	subs.add(e)
	if !e.reads(h, key) {
		e.deps = append(e.deps, dep{h: h, key: key})
	}
}

// Trigger runs every effect subscribed to (h, key), in the order they
// subscribed. Effects are run from a snapshot, so an effect that re-subscribes
// while running is not visited twice by the same call.
func (rt *Runtime) Trigger(h Handle, key any) {
	keys, ok := rt.registry[h]
	if !ok {
		return
	}
	subs, ok := keys[key]
	if !ok || len(subs.list) == 0 {
		return
	}
	snapshot := make([]*Effect, len(subs.list))
	copy(snapshot, subs.list)
	for _, e := range snapshot {
		if e.disposed {
			continue
		}
		rt.run(e)
	}
}

// Effect registers fn and runs it immediately. Reads tracked during the run
// subscribe the effect for future triggers.
func (rt *Runtime) Effect(fn func()) *Effect {
	rt.effects++
	e := &Effect{id: rt.effects, fn: fn, rt: rt}
	rt.run(e)
	return e
}

// Untrack runs fn with tracking suspended, so its reads subscribe nothing.
func (rt *Runtime) Untrack(fn func()) {
	saved := rt.stack
	rt.stack = nil
	defer func() { rt.stack = saved }()
	fn()
}

// run re-executes e. Pairs read again keep e at its existing position in their
// subscriber lists; pairs from the previous run that were not read again are
// dropped afterwards, so branches no longer taken stop triggering e.
func (rt *Runtime) run(e *Effect) {
	if len(rt.stack) >= MaxDepth {
		panic(fmt.Sprintf("reactive: effect depth exceeded %d (effect %d), likely a dependency cycle", MaxDepth, e.id))
	}
	prev := e.deps
	e.deps = nil
	rt.stack = append(rt.stack, e)
	defer func() {
		rt.stack[len(rt.stack)-1] = nil
		rt.stack = rt.stack[:len(rt.stack)-1]
		rt.prune(e, prev)
	}()
	e.fn()
}

// prune removes e from every pair in stale that its latest run did not read.
func (rt *Runtime) prune(e *Effect, stale []dep) {
	for _, d := range stale {
		if e.reads(d.h, d.key) {
			continue
		}
		if subs, ok := rt.registry[d.h][d.key]; ok {
			subs.remove(e)
		}
	}
}

func (rt *Runtime) unsubscribe(e *Effect) {
	for _, d := range e.deps {
		if keys, ok := rt.registry[d.h]; ok {
			if subs, ok := keys[d.key]; ok {
				subs.remove(e)
			}
		}
	}
	e.deps = e.deps[:0]
}

// subscriberCount reports how many effects listen on (h, key).
func (rt *Runtime) subscriberCount(h Handle, key any) int {
	if subs, ok := rt.registry[h][key]; ok {
		return len(subs.list)
	}
	return 0
}

// ID returns the effect's sequence number within its runtime.
func (e *Effect) ID() uint64 {
	return e.id
}

// Dispose unsubscribes e everywhere. A disposed effect never runs again.
func (e *Effect) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.rt.unsubscribe(e)
}

// Disposed reports whether Dispose has been called.
func (e *Effect) Disposed() bool {
	return e.disposed
}

func (e *Effect) reads(h Handle, key any) bool {
	for _, d := range e.deps {
		if d.h == h && d.key == key {
			return true
		}
	}
	return false
}

func (e *Effect) forget(h Handle, key any) {
	for i, d := range e.deps {
		if d.h == h && d.key == key {
			copy(e.deps[i:], e.deps[i+1:])
			e.deps = e.deps[:len(e.deps)-1]
			return
		}
	}
}
