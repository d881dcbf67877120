package reactive

import (
	"strings"
	"testing"
)

func TestTriggerWithoutTrackIsNoop(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	rt.Trigger(h, "x")
	rt.Trigger(rt.NewHandle(), 42)
	if n := rt.subscriberCount(h, "x"); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
}

func TestTrackOutsideEffectIsNoop(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	rt.Track(h, "x")
	if len(rt.registry) != 0 {
		t.Errorf("registry has %d entries, want 0", len(rt.registry))
	}
}

func TestEffectRunsImmediately(t *testing.T) {
	rt := NewRuntime()
	runs := 0
	rt.Effect(func() { runs++ })
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if rt.Current() != nil {
		t.Error("current effect should be cleared after Effect returns")
	}
}

func TestTriggerRunsSubscriberOncePerCall(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	runs := 0
	rt.Effect(func() {
		runs++
		rt.Track(h, "x")
		rt.Track(h, "x")
		rt.Track(h, "x")
	})
	if n := rt.subscriberCount(h, "x"); n != 1 {
		t.Fatalf("subscribers = %d, want 1", n)
	}

	rt.Trigger(h, "x")
	if runs != 2 {
		t.Errorf("runs after one trigger = %d, want 2", runs)
	}
	rt.Trigger(h, "x")
	if runs != 3 {
		t.Errorf("runs after two triggers = %d, want 3", runs)
	}
	if n := rt.subscriberCount(h, "x"); n != 1 {
		t.Errorf("subscribers after re-runs = %d, want 1", n)
	}
}

func TestTriggerOrderFollowsRegistration(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		first := true
		rt.Effect(func() {
			rt.Track(h, "k")
			if first {
				first = false
				return
			}
			order = append(order, name)
		})
	}

	rt.Trigger(h, "k")
	if got := strings.Join(order, ""); got != "abc" {
		t.Errorf("order = %q, want %q", got, "abc")
	}
}

func TestRerunKeepsRegistrationOrder(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	var order []string
	recording := false
	rt.Effect(func() {
		rt.Track(h, "x")
		rt.Track(h, "y")
		if recording {
			order = append(order, "a")
		}
	})
	rt.Effect(func() {
		rt.Track(h, "x")
		if recording {
			order = append(order, "b")
		}
	})

	// Re-running a alone must not move it behind b on x.
	rt.Trigger(h, "y")
	recording = true
	rt.Trigger(h, "x")
	if got := strings.Join(order, ""); got != "ab" {
		t.Errorf("order = %q, want %q", got, "ab")
	}
}

func TestDisposeDuringRunUnsubscribesEverything(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	var e *Effect
	runs := 0
	e = rt.Effect(func() {
		runs++
		rt.Track(h, "x")
		if runs > 1 {
			e.Dispose()
		}
	})
	rt.Trigger(h, "x")
	if n := rt.subscriberCount(h, "x"); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
	rt.Trigger(h, "x")
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestTriggerOnlyMatchingKey(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	other := rt.NewHandle()
	runs := 0
	rt.Effect(func() {
		runs++
		rt.Track(h, "x")
	})

	rt.Trigger(h, "y")
	rt.Trigger(other, "x")
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestStaleBranchesArePruned(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	useA := true
	runs := 0
	rt.Effect(func() {
		runs++
		rt.Track(h, "cond")
		if useA {
			rt.Track(h, "a")
		} else {
			rt.Track(h, "b")
		}
	})

	useA = false
	rt.Trigger(h, "cond")
	if runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}

	rt.Trigger(h, "a")
	if runs != 2 {
		t.Errorf("trigger on abandoned branch re-ran effect: runs = %d, want 2", runs)
	}
	rt.Trigger(h, "b")
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestNestedEffectRestoresOuter(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	outerRuns, innerRuns := 0, 0
	rt.Effect(func() {
		outerRuns++
		if outerRuns == 1 {
			rt.Effect(func() {
				innerRuns++
				rt.Track(h, "inner")
			})
		}
		rt.Track(h, "outer")
	})

	if n := rt.subscriberCount(h, "outer"); n != 1 {
		t.Fatalf("outer subscribers = %d, want 1", n)
	}
	rt.Trigger(h, "inner")
	if innerRuns != 2 || outerRuns != 1 {
		t.Errorf("inner trigger: inner=%d outer=%d, want 2 and 1", innerRuns, outerRuns)
	}
	rt.Trigger(h, "outer")
	if innerRuns != 2 || outerRuns != 2 {
		t.Errorf("outer trigger: inner=%d outer=%d, want 2 and 2", innerRuns, outerRuns)
	}
}

func TestNestedTriggersRunDepthFirst(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	var log []string
	armed := false
	rt.Effect(func() {
		rt.Track(h, "a")
		if armed {
			log = append(log, "a:start")
			rt.Trigger(h, "b")
			log = append(log, "a:end")
		}
	})
	rt.Effect(func() {
		rt.Track(h, "b")
		if armed {
			log = append(log, "b")
		}
	})

	armed = true
	rt.Trigger(h, "a")
	want := "a:start,b,a:end"
	if got := strings.Join(log, ","); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestDisposeStopsEffect(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	runs := 0
	e := rt.Effect(func() {
		runs++
		rt.Track(h, "x")
	})
	e.Dispose()
	e.Dispose()

	rt.Trigger(h, "x")
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if !e.Disposed() {
		t.Error("Disposed() = false, want true")
	}
}

func TestReleaseDropsSubscriptions(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	runs := 0
	rt.Effect(func() {
		runs++
		rt.Track(h, "x")
	})
	rt.Release(h)

	rt.Trigger(h, "x")
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if _, ok := rt.registry[h]; ok {
		t.Error("registry entry should be gone after Release")
	}
}

func TestUntrackSkipsSubscription(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	rt.Effect(func() {
		rt.Untrack(func() { rt.Track(h, "x") })
	})
	if n := rt.subscriberCount(h, "x"); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
}

func TestCycleHitsDepthLimit(t *testing.T) {
	rt := NewRuntime()
	h := rt.NewHandle()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic from runaway effect")
		}
		if !strings.Contains(r.(string), "dependency cycle") {
			t.Errorf("panic = %v, want dependency cycle message", r)
		}
		if rt.Current() != nil {
			t.Error("effect stack not unwound after panic")
		}
	}()
	rt.Effect(func() {
		rt.Track(h, "x")
		rt.Trigger(h, "x")
	})
}
