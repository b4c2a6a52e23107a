// Package scene reads declarative shadow tree descriptions from YAML.
//
// A scene names a viewport and a nested list of nodes:
//
//	surface: demo
//	viewport: {width: 390, height: 844}
//	scale: 3
//	style: {axis: column}
//	nodes:
//	  - tag: 10
//	    component: Header
//	    style: {height: 44, padding: {all: 8}}
//	  - component: Body
//	    style: {grow: 1}
//
// Nodes without a tag get one from the family registry.
package scene

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/shadow"
)

// Scene is a parsed scene file.
type Scene struct {
	Surface   string     `yaml:"surface,omitempty"`
	Viewport  Size       `yaml:"viewport"`
	Scale     float64    `yaml:"scale,omitempty"`
	Direction string     `yaml:"direction,omitempty"`
	Style     StyleSpec  `yaml:"style,omitempty"`
	Nodes     []NodeSpec `yaml:"nodes,omitempty"`
}

// Size is a width and height pair.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// NodeSpec describes one node and its subtree.
type NodeSpec struct {
	Tag       layout.Tag `yaml:"tag,omitempty"`
	Component string     `yaml:"component"`
	Style     StyleSpec  `yaml:"style,omitempty"`
	Children  []NodeSpec `yaml:"children,omitempty"`
}

// StyleSpec is the YAML form of layout.Style.
type StyleSpec struct {
	Axis    string   `yaml:"axis,omitempty"`
	Width   *float64 `yaml:"width,omitempty"`
	Height  *float64 `yaml:"height,omitempty"`
	Padding Insets   `yaml:"padding,omitempty"`
	Margin  Insets   `yaml:"margin,omitempty"`
	Border  Insets   `yaml:"border,omitempty"`
	Grow    float64  `yaml:"grow,omitempty"`
	Display string   `yaml:"display,omitempty"`
}

// Insets sets all four edges at once, then overrides single edges.
type Insets struct {
	All    float64 `yaml:"all,omitempty"`
	Left   float64 `yaml:"left,omitempty"`
	Top    float64 `yaml:"top,omitempty"`
	Right  float64 `yaml:"right,omitempty"`
	Bottom float64 `yaml:"bottom,omitempty"`
}

// Props are the props of nodes built from a scene.
type Props struct {
	Component string
	Style     layout.Style
}

// LayoutStyle implements layout.Styled.
func (p Props) LayoutStyle() layout.Style {
	return p.Style
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a scene. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, invalid("scene.Parse", 0, fmt.Errorf("failed to parse scene: %w", err))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks sizes, enum values and tag uniqueness.
func (s *Scene) Validate() error {
	if !(s.Viewport.Width > 0) || !(s.Viewport.Height > 0) || math.IsInf(s.Viewport.Width, 0) || math.IsInf(s.Viewport.Height, 0) {
		return invalid("scene.Validate", 0, fmt.Errorf("viewport must be positive, got %gx%g", s.Viewport.Width, s.Viewport.Height))
	}
	if !finite(s.Scale) || s.Scale < 0 {
		return invalid("scene.Validate", 0, fmt.Errorf("invalid scale %g", s.Scale))
	}
	if _, err := parseDirection(s.Direction); err != nil {
		return invalid("scene.Validate", 0, err)
	}
	if _, err := s.Style.Resolve(); err != nil {
		return invalid("scene.Validate", 0, err)
	}

	seen := make(map[layout.Tag]bool)
	var check func(nodes []NodeSpec) error
	check = func(nodes []NodeSpec) error {
		for _, n := range nodes {
			if n.Tag < 0 {
				return invalid("scene.Validate", int64(n.Tag), fmt.Errorf("negative tag"))
			}
			if n.Tag != 0 {
				if seen[n.Tag] {
					return invalid("scene.Validate", int64(n.Tag), fmt.Errorf("duplicate tag %d", n.Tag))
				}
				seen[n.Tag] = true
			}
			if _, err := n.Style.Resolve(); err != nil {
				return invalid("scene.Validate", int64(n.Tag), fmt.Errorf("%s: %w", n.Component, err))
			}
			if err := check(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return check(s.Nodes)
}

// Constraints returns the root constraints of the scene.
func (s *Scene) Constraints() layout.Constraints {
	c := layout.Tight(graphics.Size{Width: s.Viewport.Width, Height: s.Viewport.Height})
	c.Direction, _ = parseDirection(s.Direction)
	return c
}

// Context returns the layout context of the scene.
func (s *Scene) Context() layout.Context {
	ctx := layout.DefaultContext()
	if s.Scale > 0 {
		ctx.PointScaleFactor = s.Scale
	}
	return ctx
}

// Build creates an unsealed root for the scene. Explicit tags are reserved
// in registry before any tag is handed out, so the root and untagged nodes
// never collide with them. The returned map holds every family by tag,
// the root's included.
func (s *Scene) Build(registry *shadow.FamilyRegistry) (*shadow.Root, map[layout.Tag]*shadow.Family, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	reserve(registry, s.Nodes)

	families := make(map[layout.Tag]*shadow.Family)
	var build func(spec NodeSpec) *shadow.Node
	build = func(spec NodeSpec) *shadow.Node {
		var family *shadow.Family
		if spec.Tag != 0 {
			family = shadow.NewFamily(spec.Tag, registry.Surface(), spec.Component)
		} else {
			family = registry.NewFamily(spec.Component)
		}
		families[family.Tag()] = family

		children := make([]*shadow.Node, 0, len(spec.Children))
		for _, c := range spec.Children {
			children = append(children, build(c))
		}
		style, _ := spec.Style.Resolve()
		return shadow.NewNode(family, shadow.Fragment{
			Props:    Props{Component: spec.Component, Style: style},
			Children: children,
		})
	}

	nodes := make([]*shadow.Node, 0, len(s.Nodes))
	for _, spec := range s.Nodes {
		nodes = append(nodes, build(spec))
	}

	rootFamily := registry.NewFamily("Root")
	families[rootFamily.Tag()] = rootFamily
	style, _ := s.Style.Resolve()
	root := shadow.NewRoot(rootFamily, s.Constraints(), s.Context(), Props{Component: "Root", Style: style}, nodes...)
	return root, families, nil
}

func reserve(registry *shadow.FamilyRegistry, nodes []NodeSpec) {
	for _, n := range nodes {
		if n.Tag != 0 {
			registry.Reserve(n.Tag)
		}
		reserve(registry, n.Children)
	}
}

// Resolve converts s into a layout.Style.
func (s StyleSpec) Resolve() (layout.Style, error) {
	style := layout.Style{
		Padding: s.Padding.resolve(),
		Margin:  s.Margin.resolve(),
		Border:  s.Border.resolve(),
		Grow:    s.Grow,
	}

	switch strings.ToLower(s.Axis) {
	case "", "column":
		style.Axis = layout.AxisColumn
	case "row":
		style.Axis = layout.AxisRow
	default:
		return style, fmt.Errorf("unknown axis %q", s.Axis)
	}

	switch strings.ToLower(s.Display) {
	case "", "flex":
		style.Display = layout.DisplayFlex
	case "none":
		style.Display = layout.DisplayNone
	default:
		return style, fmt.Errorf("unknown display %q", s.Display)
	}

	if s.Width != nil {
		if !finite(*s.Width) || *s.Width < 0 {
			return style, fmt.Errorf("invalid width %g", *s.Width)
		}
		style.Width = layout.Points(*s.Width)
	}
	if s.Height != nil {
		if !finite(*s.Height) || *s.Height < 0 {
			return style, fmt.Errorf("invalid height %g", *s.Height)
		}
		style.Height = layout.Points(*s.Height)
	}
	if !finite(s.Grow) || s.Grow < 0 {
		return style, fmt.Errorf("invalid grow %g", s.Grow)
	}
	for _, in := range []graphics.EdgeInsets{style.Padding, style.Margin, style.Border} {
		if !validEdge(in.Left) || !validEdge(in.Top) || !validEdge(in.Right) || !validEdge(in.Bottom) {
			return style, fmt.Errorf("invalid insets")
		}
	}
	return style, nil
}

func (in Insets) resolve() graphics.EdgeInsets {
	out := graphics.EdgeInsetsAll(in.All)
	if in.Left != 0 {
		out.Left = in.Left
	}
	if in.Top != 0 {
		out.Top = in.Top
	}
	if in.Right != 0 {
		out.Right = in.Right
	}
	if in.Bottom != 0 {
		out.Bottom = in.Bottom
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validEdge(v float64) bool {
	return finite(v) && v >= 0
}

func parseDirection(s string) (layout.Direction, error) {
	switch strings.ToLower(s) {
	case "":
		return layout.DirectionInherit, nil
	case "ltr":
		return layout.DirectionLTR, nil
	case "rtl":
		return layout.DirectionRTL, nil
	}
	return layout.DirectionInherit, fmt.Errorf("unknown direction %q", s)
}

func invalid(op string, tag int64, err error) error {
	return &errors.TreeError{Op: op, Kind: errors.KindConfig, Tag: tag, Err: err}
}
