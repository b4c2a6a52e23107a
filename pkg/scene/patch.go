package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/shadow"
)

// Patch overrides style fields of one tagged node.
type Patch struct {
	Tag     layout.Tag
	Width   *float64
	Height  *float64
	Grow    *float64
	Display *layout.Display
}

// ParsePatch parses "tag=key:value,key:value". Keys are width, height,
// grow and display (flex or none).
func ParsePatch(s string) (Patch, error) {
	tagPart, fields, ok := strings.Cut(s, "=")
	if !ok {
		return Patch{}, fmt.Errorf("patch %q: expected tag=key:value", s)
	}
	tag, err := strconv.ParseInt(strings.TrimSpace(tagPart), 10, 64)
	if err != nil || tag <= 0 {
		return Patch{}, fmt.Errorf("patch %q: invalid tag %q", s, tagPart)
	}

	p := Patch{Tag: layout.Tag(tag)}
	for _, field := range strings.Split(fields, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(field), ":")
		if !ok {
			return Patch{}, fmt.Errorf("patch %q: expected key:value in %q", s, field)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if key == "display" {
			var d layout.Display
			switch strings.ToLower(value) {
			case "flex":
				d = layout.DisplayFlex
			case "none":
				d = layout.DisplayNone
			default:
				return Patch{}, fmt.Errorf("patch %q: unknown display %q", s, value)
			}
			p.Display = &d
			continue
		}

		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Patch{}, fmt.Errorf("patch %q: invalid %s %q", s, key, value)
		}
		switch key {
		case "width":
			p.Width = &v
		case "height":
			p.Height = &v
		case "grow":
			p.Grow = &v
		default:
			return Patch{}, fmt.Errorf("patch %q: unknown key %q", s, key)
		}
	}
	return p, nil
}

// Apply returns a copy of style with the patch applied.
func (p Patch) Apply(style layout.Style) layout.Style {
	if p.Width != nil {
		style.Width = layout.Points(*p.Width)
	}
	if p.Height != nil {
		style.Height = layout.Points(*p.Height)
	}
	if p.Grow != nil {
		style.Grow = *p.Grow
	}
	if p.Display != nil {
		style.Display = *p.Display
	}
	return style
}

// Transform returns a shadow.Transform applying the patch to a node built
// from a scene.
func (p Patch) Transform() shadow.Transform {
	return func(old *shadow.Node) *shadow.Node {
		props, _ := old.Props().(Props)
		props.Style = p.Apply(props.Style)
		return old.Clone(shadow.Fragment{Props: props})
	}
}
