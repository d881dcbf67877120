package arbor

import (
	"fmt"
	"log/slog"
	"time"
)

// debugLogger receives debug-mode warnings from node operations, which have
// no Scene pointer. Set by Scene.SetDebugMode.
var debugLogger = slog.Default()

// drawStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type drawStats struct {
	traverseTime time.Duration
	drawTime     time.Duration
	nodesVisited int
	drawCalls    int
}

// debugLog logs frame stats at debug level.
func (s *Scene) debugLog(stats drawStats) {
	if !s.debug {
		return
	}
	s.logger.Debug("frame",
		"traverse", stats.traverseTime,
		"draw", stats.drawTime,
		"nodes", stats.nodesVisited,
		"drawCalls", stats.drawCalls,
		"tweens", s.NumTweens(),
		"timers", s.clock.Pending(),
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("arbor debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
