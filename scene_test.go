package arbor

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.root == nil {
		t.Fatal("root should not be nil")
	}
	if s.root.Name != "root" {
		t.Errorf("root.Name = %q, want %q", s.root.Name, "root")
	}
	if s.root.Type != NodeTypeContainer {
		t.Errorf("root.Type = %v, want container", s.root.Type)
	}
	if s.NumNodes() != 1 {
		t.Errorf("NumNodes = %d, want 1 (root)", s.NumNodes())
	}
}

func TestSceneRoot(t *testing.T) {
	s := NewScene()
	if s.Root() != RenderNode(s.root) {
		t.Error("Root() should return the internal root node")
	}
	if s.NodeByID(s.root.ID) != RenderNode(s.root) {
		t.Error("root should be indexed by id")
	}
}

func TestSceneCreateNodeAppliesProps(t *testing.T) {
	s := NewScene()
	rn, err := s.CreateNode(NewProps("parent", s.Root(), "x", 5, "w", 10, "name", "box"))
	if err != nil {
		t.Fatal(err)
	}
	n := rn.(*Node)
	if n.Type != NodeTypeQuad {
		t.Errorf("Type = %v, want quad", n.Type)
	}
	if n.Parent != s.root {
		t.Error("node should be attached to root")
	}
	if n.X != 5 || n.W != 10 {
		t.Errorf("X/W = %v/%v, want 5/10", n.X, n.W)
	}
	if n.Name != "box" {
		t.Errorf("Name = %q, want %q", n.Name, "box")
	}
	if s.NodeByID(n.ID) != rn {
		t.Error("created node should be indexed")
	}
}

func TestSceneCreateTextNode(t *testing.T) {
	s := NewScene()
	rn, err := s.CreateTextNode(NewProps("text", "hello"))
	if err != nil {
		t.Fatal(err)
	}
	n := rn.(*Node)
	if n.Type != NodeTypeText || n.Text != "hello" {
		t.Errorf("got %v %q, want text node with %q", n.Type, n.Text, "hello")
	}
}

func TestSceneCreateNodeErrorDisposes(t *testing.T) {
	s := NewScene()
	_, err := s.CreateNode(NewProps("parent", s.Root(), "x", "left"))
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("error = %v, want ErrInvalidValue", err)
	}
	if s.NumNodes() != 1 {
		t.Errorf("NumNodes = %d, want only root after failed create", s.NumNodes())
	}
	if s.root.NumChildren() != 0 {
		t.Error("failed node should not stay attached")
	}
}

func TestSceneNodeByIDMissing(t *testing.T) {
	s := NewScene()
	if s.NodeByID(999999) != nil {
		t.Error("unknown id should return nil")
	}
}

func TestSceneAfterFuncRunsOnAdvance(t *testing.T) {
	s := NewScene()
	fired := 0
	s.AfterFunc(100*time.Millisecond, func() { fired++ })

	s.Advance(0.05)
	if fired != 0 {
		t.Fatal("timer fired early")
	}
	s.Advance(0.05)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if s.Now() != 100*time.Millisecond {
		t.Errorf("Now = %v, want 100ms", s.Now())
	}
}

func TestSceneSetDebugMode(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	if !s.debug || !globalDebug {
		t.Error("debug should be true")
	}
	s.SetDebugMode(false)
	if s.debug || globalDebug {
		t.Error("debug should be false")
	}
}

func TestSceneSetLoggerNilRestoresDefault(t *testing.T) {
	s := NewScene()
	s.SetLogger(nil)
	if s.logger != slog.Default() {
		t.Error("SetLogger(nil) should restore slog.Default()")
	}
}

func TestSceneApplySettings(t *testing.T) {
	s := NewScene()
	defer s.SetDebugMode(false)

	settings := NewSettings()
	settings.Set("debug", true)
	settings.Set("clearColor", "#102030")
	s.ApplySettings(settings)

	if !s.debug {
		t.Error("debug setting should enable debug mode")
	}
	if got := s.ClearColor.Packed(); got != 0x102030ff {
		t.Errorf("ClearColor = %#x, want 0x102030ff", got)
	}
}

func TestSceneApplySettingsBadColorWarns(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene()
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	settings := NewSettings()
	settings.Set("clearColor", "nope")
	s.ApplySettings(settings)

	if s.ClearColor != (Color{}) {
		t.Errorf("ClearColor = %v, want unchanged", s.ClearColor)
	}
	if !strings.Contains(buf.String(), "clearColor") {
		t.Errorf("expected a clearColor warning, got %q", buf.String())
	}
}
