package arbor

import (
	"fmt"
	"math"
	"reflect"
	"slices"
)

// RuleContext is what a Rule may consult besides the bag itself.
type RuleContext struct {
	Renderer Renderer
	Colors   ColorNormalizer
	// SetProperties lists the property names already set on the element, in
	// the order they were first set. Read-only.
	SetProperties []string
}

func (c RuleContext) wasSet(prop string) bool {
	return slices.Contains(c.SetProperties, prop)
}

// Rule normalizes or derives fields of a property bag. Rules never modify
// their input; they return a new bag, which may add or remove keys other
// than the one the rule is registered under.
type Rule func(ctx RuleContext, props Props) (Props, error)

// rules is the transformation registry, keyed by the property that fires
// each rule.
var rules = map[string]Rule{
	"parentId":     parentIDRule,
	"color":        colorRule,
	"show":         showRule,
	"rotation":     rotationRule,
	"text":         textRule,
	"textureColor": textureColorRule,
	"effects":      effectsRule,
	"src":          imageSourceRule,
	"texture":      imageSourceRule,
}

// RuleFor returns the rule registered for prop.
func RuleFor(prop string) (Rule, bool) {
	r, ok := rules[prop]
	return r, ok
}

// parentIDRule resolves parentId to a live parent node: "root" means the
// renderer root, anything else is looked up as a node id.
func parentIDRule(ctx RuleContext, in Props) (Props, error) {
	props := in.Clone()
	id := props.Value("parentId")
	var parent RenderNode
	if s, ok := id.(string); ok && s == "root" {
		parent = ctx.Renderer.Root()
	} else {
		f, err := toFloat(id)
		if err != nil {
			return props, fmt.Errorf("parentId: %w", err)
		}
		if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
			return props, fmt.Errorf("%w: parentId %v is not a node id", ErrInvalidValue, id)
		}
		parent = ctx.Renderer.NodeByID(uint32(f))
		if parent == nil {
			return props, fmt.Errorf("%w: parentId %v", ErrNodeNotFound, id)
		}
	}
	props.Set("parent", parent)
	props.Delete("parentId")
	return props, nil
}

func colorRule(ctx RuleContext, in Props) (Props, error) {
	props := in.Clone()
	c, err := ctx.Colors.Normalize(props.Value("color"))
	if err != nil {
		return props, err
	}
	props.Set("color", c)
	return props, nil
}

// showRule maps the visibility flag to an alpha of 0 or 1.
func showRule(_ RuleContext, in Props) (Props, error) {
	props := in.Clone()
	alpha := 0.0
	if toBool(props.Value("show")) {
		alpha = 1
	}
	props.Set("alpha", alpha)
	props.Delete("show")
	return props, nil
}

// rotationRule converts degrees to radians.
func rotationRule(_ RuleContext, in Props) (Props, error) {
	props := in.Clone()
	deg, err := toFloat(props.Value("rotation"))
	if err != nil {
		return props, fmt.Errorf("rotation: %w", err)
	}
	props.Set("rotation", deg*(math.Pi/180))
	return props, nil
}

func textRule(_ RuleContext, in Props) (Props, error) {
	props := in.Clone()
	props.Set("text", toText(props.Value("text")))
	return props, nil
}

// textureColorRule fills in a tint when none was given: opaque white for
// image nodes, transparent otherwise.
func textureColorRule(_ RuleContext, in Props) (Props, error) {
	if in.Has("color") {
		return in, nil
	}
	props := in.Clone()
	if props.Has("src") || props.Has("texture") {
		props.Set("color", ColorOpaqueWhite)
	} else {
		props.Set("color", ColorTransparent)
	}
	return props, nil
}

// effectsRule maps the first effect to the node shader. Only one effect is
// supported until shaders can be composed.
func effectsRule(_ RuleContext, in Props) (Props, error) {
	props := in.Clone()
	var shader any
	if v := reflect.ValueOf(props.Value("effects")); v.IsValid() &&
		(v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && v.Len() > 0 {
		shader = v.Index(0).Interface()
	}
	props.Set("shader", shader)
	props.Delete("effects")
	return props, nil
}

// imageSourceRule tints image nodes opaque white unless a color was set
// earlier on the element or is part of the same bag.
func imageSourceRule(ctx RuleContext, in Props) (Props, error) {
	if ctx.wasSet("color") || in.Has("color") {
		return in, nil
	}
	props := in.Clone()
	props.Set("color", ColorOpaqueWhite)
	return props, nil
}
