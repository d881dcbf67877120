// Package arbor keeps an [Ebitengine] render tree in sync with declarative
// property data.
//
// An [Element] owns one render node. [Element.Populate] merges defaults,
// configuration and initial data into a property bag, runs the
// transformation rules over it and creates the node through a [Renderer].
// After that, [Element.Set] writes single properties and [Element.Animate]
// tweens them.
//
// # Quick start
//
//	scene := arbor.NewScene()
//	box := arbor.NewElement(scene, arbor.NewProps("w", 64, "h", 64))
//	if err := box.Populate(arbor.NewProps("parentId", "root", "color", "#ff8800")); err != nil {
//		log.Fatal(err)
//	}
//	box.Set("x", arbor.Transition{Value: 200, Duration: 500, Function: "ease-out"})
//	arbor.Run(scene, arbor.RunConfig{Title: "arbor", Width: 640, Height: 480})
//
// # Property bags
//
// [Props] is an insertion-ordered bag. Merging bags keeps the position of the
// first occurrence of each key and the value of the last, and rules run in
// key order, so the order in which data is written matters. [ParseProps]
// reads bags from YAML without losing that order.
//
// # Values
//
// A property value may be bare, wrapped in a [Descriptor] or a {value: v}
// record, or a [Transition]. [Unwrap] resolves wrapped values. A transition
// passed to Set animates the property if it was set before; otherwise only
// the property name is recorded.
//
// # Rules
//
// Rules rewrite the bag before it reaches the node: parentId resolves to a
// node, color is normalized to packed 0xRRGGBBAA, rotation goes from degrees
// to radians, show becomes alpha, effects becomes shader, and image nodes get
// an opaque white tint unless a color was given.
//
// # Animation
//
// Animations are [gween] tweens advanced by [Scene.Update]. Delayed starts
// are scheduled on the scene's frame clock and are cancelled by a later write
// of the same property or by [Element.Delete].
//
// # Reactivity
//
// The reactive subpackage provides dependency tracking: effects re-run when
// the cells they read change, which is how data is usually bound to elements.
//
// # Configuration and metrics
//
// [Settings] loads toolkit options from a file and ARBOR_* environment
// variables. [Metrics] exposes Prometheus counters for node creation,
// property writes and animations.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package arbor
