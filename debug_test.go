package arbor

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// debugScene returns a scene in debug mode whose warnings go to buf.
func debugScene(t *testing.T, buf *bytes.Buffer) *Scene {
	t.Helper()
	s := NewScene()
	s.SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s.SetDebugMode(true)
	t.Cleanup(func() {
		s.SetDebugMode(false)
		debugLogger = slog.Default()
	})
	return s
}

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	parent := NewContainer("parent")
	s.RootNode().AddChild(parent)

	child := NewQuad("child")
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()

	parent.AddChild(child)
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	var buf bytes.Buffer
	debugScene(t, &buf)

	parent := NewContainer("parent")
	parent.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild to disposed parent, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()

	parent.AddChild(NewQuad("child"))
}

func TestReleaseMode_DisposedNodeNoPanic(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(false)

	child := NewQuad("child")
	child.Dispose()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("release mode should not panic on disposed node, got: %v", r)
		}
	}()
	s.RootNode().AddChild(child)
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	current := s.RootNode()
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := NewContainer(fmt.Sprintf("depth_%d", i))
		current.AddChild(child)
		current = child
	}

	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected tree depth warning, got: %q", buf.String())
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	for i := 0; i < debugMaxChildCount+1; i++ {
		s.RootNode().AddChild(NewQuad("c"))
	}

	if !strings.Contains(buf.String(), "child count exceeds threshold") {
		t.Errorf("expected child count warning, got: %q", buf.String())
	}
}

func TestDebugLogFrameStats(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)
	s.AfterFunc(0, func() {})

	s.debugLog(drawStats{nodesVisited: 3, drawCalls: 2})

	out := buf.String()
	for _, want := range []string{"frame", "nodes=3", "drawCalls=2", "timers=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame log missing %q: %q", want, out)
		}
	}
}

func TestDebugLogSilentOutsideDebugMode(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene()
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s.debugLog(drawStats{nodesVisited: 1})
	if strings.Contains(buf.String(), "frame") {
		t.Errorf("debugLog should be silent when debug is off, got %q", buf.String())
	}
}
