package arbor

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

var (
	// ErrNotPopulated is returned by element operations that need a node
	// before Populate has created one.
	ErrNotPopulated = errors.New("arbor: element not populated")
	// ErrAlreadyPopulated is returned when Populate runs a second time.
	ErrAlreadyPopulated = errors.New("arbor: element already populated")
	// ErrDeleted is returned by Set and Animate after Delete.
	ErrDeleted = errors.New("arbor: element deleted")
	// ErrNodeNotFound is returned when a parentId names no live node.
	ErrNodeNotFound = errors.New("arbor: node not found")
	// ErrInvalidValue is returned when a property value has the wrong shape.
	ErrInvalidValue = errors.New("arbor: invalid property value")
	// ErrInvalidColor is returned when a color cannot be normalized.
	ErrInvalidColor = errors.New("arbor: invalid color")
)

// TextNodeMarker is the bag key that makes Populate create a text node.
const TextNodeMarker = "__textnode"

// Renderer creates and looks up render-tree nodes.
type Renderer interface {
	Root() RenderNode
	NodeByID(id uint32) RenderNode
	CreateNode(props Props) (RenderNode, error)
	CreateTextNode(props Props) (RenderNode, error)
}

// RenderNode is a live render-tree node.
type RenderNode interface {
	NodeID() uint32
	Get(prop string) any
	Set(prop string, v any) error
	SetParent(parent RenderNode)
	Animate(props Props, settings AnimationSettings) Animation
}

// ElementState is the lifecycle stage of an Element.
type ElementState uint8

const (
	ElementUninitialized ElementState = iota // no node yet
	ElementPopulated                         // node created
	ElementDeleted                           // node detached
)

// Element keeps a render node in sync with declarative property data.
// Populate creates the node; Set writes or animates single properties.
type Element struct {
	renderer Renderer
	colors   ColorNormalizer
	clock    Clock
	logger   *slog.Logger
	metrics  *Metrics

	defaults Props
	config   Props
	initData Props
	node     RenderNode
	state    ElementState

	setProperties []string
	pending       map[string]Timer

	transitionDuration float64
	transitionEasing   string
}

// ElementOption configures an Element.
type ElementOption func(*Element)

// WithLogger sets the element logger.
func WithLogger(l *slog.Logger) ElementOption {
	return func(e *Element) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithColors replaces the color normalizer.
func WithColors(c ColorNormalizer) ElementOption {
	return func(e *Element) { e.colors = c }
}

// WithClock sets the clock used for delayed animation starts. By default the
// renderer is used when it implements Clock.
func WithClock(c Clock) ElementOption {
	return func(e *Element) { e.clock = c }
}

// WithMetrics records element activity in m.
func WithMetrics(m *Metrics) ElementOption {
	return func(e *Element) { e.metrics = m }
}

// WithSettings reads transition.duration and transition.easing as the
// defaults for transitions that leave them out.
func WithSettings(s *Settings) ElementOption {
	return func(e *Element) {
		if s == nil {
			return
		}
		e.transitionDuration = s.GetFloat("transition.duration", DefaultTransitionDuration)
		e.transitionEasing = s.GetString("transition.easing", DefaultTransitionEasing)
	}
}

// NewElement returns an uninitialized element that will create its node
// through r. config is merged over the built-in defaults at Populate time.
func NewElement(r Renderer, config Props, opts ...ElementOption) *Element {
	e := &Element{
		renderer:           r,
		colors:             DefaultColors,
		logger:             slog.Default(),
		defaults:           NewProps("rotation", 0),
		config:             config.Clone(),
		pending:            make(map[string]Timer),
		transitionDuration: DefaultTransitionDuration,
		transitionEasing:   DefaultTransitionEasing,
	}
	if c, ok := r.(Clock); ok {
		e.clock = c
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Populate merges defaults, config and data (later wins), runs the
// transformation rules over the merged bag in key order, derives the tint and
// creates the node.
func (e *Element) Populate(data Props) error {
	if e.state != ElementUninitialized {
		return ErrAlreadyPopulated
	}
	props := Merge(e.defaults, e.config, data)

	// Nothing is committed to the element until the node exists.
	set := slices.Clone(e.setProperties)
	ctx := e.ruleContext()
	keys := slices.Clone(props.Keys())
	for _, key := range keys {
		ctx.SetProperties = set
		if rule, ok := rules[key]; ok && props.Has(key) {
			props.Set(key, Unwrap(props.Value(key)))
			var err error
			props, err = rule(ctx, props)
			if err != nil {
				return fmt.Errorf("populate %s: %w", key, err)
			}
		}
		if !slices.Contains(set, key) {
			set = append(set, key)
		}
	}
	ctx.SetProperties = set

	props, err := textureColorRule(ctx, props)
	if err != nil {
		return fmt.Errorf("populate: %w", err)
	}

	text := toBool(props.Value(TextNodeMarker))
	props.Delete(TextNodeMarker)
	var node RenderNode
	if text {
		node, err = e.renderer.CreateTextNode(props)
	} else {
		node, err = e.renderer.CreateNode(props)
	}
	if err != nil {
		return fmt.Errorf("populate: %w", err)
	}
	e.node = node
	e.initData = data.Clone()
	e.setProperties = set
	e.state = ElementPopulated
	e.metrics.nodeCreated(text)
	return nil
}

// Set applies a single property. A transition-shaped value on a property
// that was set before is animated; otherwise the value is unwrapped,
// transformed and written to the node. A transition on a property never set
// before only records the property. The property is recorded as set either
// way.
func (e *Element) Set(prop string, value any) error {
	if err := e.usable(); err != nil {
		return err
	}
	defer e.markSet(prop)

	if t, ok := transitionOf(value); ok {
		if !e.wasSet(prop) {
			return nil
		}
		return e.Animate(prop, t)
	}

	e.cancelPending(prop)
	props, err := e.transform(prop, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", prop, err)
	}
	for _, k := range props.Keys() {
		if err := e.node.Set(k, props.Value(k)); err != nil {
			return fmt.Errorf("set %s: %w", prop, err)
		}
	}
	e.metrics.propertyWritten()
	return nil
}

// Animate moves prop towards value, which is a bare target or a transition
// descriptor. Nothing happens when the transformed target equals the node's
// current value. With a delay the start is deferred on the element's clock;
// the deferred start is cancelled by a later Set or Animate of prop, or by
// Delete.
func (e *Element) Animate(prop string, value any) error {
	if err := e.usable(); err != nil {
		return err
	}
	t := toTransition(value)
	props, err := e.transform(prop, t.Value)
	if err != nil {
		return fmt.Errorf("animate %s: %w", prop, err)
	}
	e.cancelPending(prop)
	if valuesEqual(e.node.Get(prop), props.Value(prop)) {
		e.metrics.animationSkipped()
		return nil
	}

	settings := AnimationSettings{Duration: t.Duration, Easing: t.Function}
	if !t.hasDuration() {
		settings.Duration = e.transitionDuration
	}
	if settings.Easing == "" {
		settings.Easing = e.transitionEasing
	}
	anim := e.node.Animate(props, settings)

	if t.Delay <= 0 || e.clock == nil {
		if t.Delay > 0 {
			e.logger.Debug("no clock for delayed animation, starting now", "prop", prop, "delay", t.Delay)
		}
		anim.Start()
		e.metrics.animationStarted()
		return nil
	}

	var timer Timer
	timer = e.clock.AfterFunc(time.Duration(t.Delay*float64(time.Millisecond)), func() {
		if e.pending[prop] == timer {
			delete(e.pending, prop)
		}
		anim.Start()
		e.metrics.animationStarted()
	})
	e.pending[prop] = timer
	return nil
}

// Delete detaches the node from its parent and cancels pending animation
// starts. The node itself is left to the renderer. Calling Delete again only
// re-detaches.
func (e *Element) Delete() {
	if e.node == nil {
		e.logger.Debug("delete on element without node")
		return
	}
	for prop := range e.pending {
		e.cancelPending(prop)
	}
	e.logger.Debug("deleting node", "nodeId", e.node.NodeID(), "id", e.ID())
	e.node.SetParent(nil)
	e.state = ElementDeleted
}

// NodeID returns the live node's id. ok is false before Populate.
func (e *Element) NodeID() (id uint32, ok bool) {
	if e.node == nil {
		return 0, false
	}
	return e.node.NodeID(), true
}

// ID returns the "id" entry of the data passed to Populate. An empty string,
// false or a numeric zero reads as nil.
func (e *Element) ID() any {
	id := e.initData.Value("id")
	if falsy(id) {
		return nil
	}
	return id
}

// Node returns the live node, or nil before Populate.
func (e *Element) Node() RenderNode {
	return e.node
}

// State returns the element's lifecycle stage.
func (e *Element) State() ElementState {
	return e.state
}

// SetProperties returns the names of every property set so far, in the
// order they were first set.
func (e *Element) SetProperties() []string {
	return slices.Clone(e.setProperties)
}

// PendingAnimations returns how many delayed animation starts are waiting.
func (e *Element) PendingAnimations() int {
	return len(e.pending)
}

func (e *Element) usable() error {
	switch e.state {
	case ElementUninitialized:
		return ErrNotPopulated
	case ElementDeleted:
		return ErrDeleted
	}
	return nil
}

// transform unwraps value into a single-entry bag and runs prop's rule.
func (e *Element) transform(prop string, value any) (Props, error) {
	props := NewProps(prop, Unwrap(value))
	if rule, ok := rules[prop]; ok {
		return rule(e.ruleContext(), props)
	}
	return props, nil
}

func (e *Element) ruleContext() RuleContext {
	return RuleContext{Renderer: e.renderer, Colors: e.colors, SetProperties: e.setProperties}
}

func (e *Element) wasSet(prop string) bool {
	return slices.Contains(e.setProperties, prop)
}

func (e *Element) markSet(prop string) {
	if !e.wasSet(prop) {
		e.setProperties = append(e.setProperties, prop)
	}
}

func (e *Element) cancelPending(prop string) {
	t, ok := e.pending[prop]
	if !ok {
		return
	}
	delete(e.pending, prop)
	if t.Stop() {
		e.metrics.animationCancelled()
	}
}
