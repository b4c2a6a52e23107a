package shadow

import (
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/layout"
)

// RootProps are the props of a root node: the layout constraints and
// context bound to the tree version, plus the surface's own props.
type RootProps struct {
	Constraints layout.Constraints
	Context     layout.Context
	Base        Props
}

// WithLayout returns a copy of p with new constraints and context.
func (p *RootProps) WithLayout(c layout.Constraints, ctx layout.Context) *RootProps {
	return &RootProps{Constraints: c, Context: ctx, Base: p.Base}
}

// LayoutStyle implements layout.Styled by deferring to the base props.
func (p *RootProps) LayoutStyle() layout.Style {
	return layout.StyleOf(p.Base)
}

// Root is the top node of one tree version.
type Root struct {
	*Node
}

// NewRoot creates an unsealed, dirty root.
func NewRoot(family *Family, c layout.Constraints, ctx layout.Context, base Props, children ...*Node) *Root {
	f := Fragment{Props: &RootProps{Constraints: c, Context: ctx, Base: base}}
	if children != nil {
		f.Children = children
	}
	return &Root{Node: NewNode(family, f)}
}

// asRoot re-types the top node of a rebuilt path.
func asRoot(n *Node) *Root {
	if _, ok := n.props.(*RootProps); !ok {
		errors.Fatal(&errors.InvariantError{
			Op:     "shadow.asRoot",
			Kind:   errors.KindFamilyMismatch,
			Tag:    int64(n.Tag()),
			Detail: "path does not end at a root node",
		})
	}
	return &Root{Node: n}
}

// RootProps returns the root's props.
func (r *Root) RootProps() *RootProps {
	return r.props.(*RootProps)
}

// Constraints returns the bound layout constraints.
func (r *Root) Constraints() layout.Constraints {
	return r.RootProps().Constraints
}

// Context returns the bound layout context.
func (r *Root) Context() layout.Context {
	return r.RootProps().Context
}

// CloneWithConstraints returns a new root bound to c and ctx that shares
// every child with r. The new root is dirty when c or ctx differ from the
// current binding and inherits r's layout state otherwise.
func (r *Root) CloneWithConstraints(c layout.Constraints, ctx layout.Context) *Root {
	props := r.RootProps()
	next := r.Node.Clone(Fragment{Props: props.WithLayout(c, ctx)})
	if props.Constraints == c && props.Context == ctx {
		next.layoutClean = r.layoutClean
	}
	return &Root{Node: next}
}

// CloneFamily is CloneAlongPath with r as the source snapshot.
func (r *Root) CloneFamily(family *Family, transform Transform) (*Root, error) {
	return CloneAlongPath(r, family, transform)
}
