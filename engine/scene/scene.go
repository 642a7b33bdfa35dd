package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/rtx/engine/geometry"
	"github.com/spaghettifunk/rtx/engine/math"
)

// Object places one geometry in the scene.
type Object struct {
	ID       uuid.UUID
	Name     string
	Geometry geometry.Geometry
}

// NewObject wraps g. An empty name defaults to the generated ID.
func NewObject(name string, g geometry.Geometry) *Object {
	id := uuid.New()
	if name == "" {
		name = id.String()
	}
	return &Object{
		ID:       id,
		Name:     name,
		Geometry: g,
	}
}

// Group applies its transformation matrix on top of the matrices of
// everything it holds. Groups nest.
type Group struct {
	Name      string
	Transform math.Mat4
	Objects   []*Object
	Groups    []*Group
}

func NewGroup(name string) *Group {
	return &Group{
		Name:      name,
		Transform: math.NewMat4Identity(),
	}
}

func (g *Group) Add(o *Object) {
	g.Objects = append(g.Objects, o)
}

func (g *Group) AddGroup(child *Group) {
	g.Groups = append(g.Groups, child)
}

func (g *Group) SetTransformationMatrix(m math.Mat4) {
	g.Transform = m
}

// Len returns the number of objects in the group and all of its children.
func (g *Group) Len() int {
	n := len(g.Objects)
	for _, child := range g.Groups {
		n += child.Len()
	}
	return n
}

type Scene struct {
	Root *Group
}

func New() *Scene {
	return &Scene{Root: NewGroup("root")}
}

func (s *Scene) Add(o *Object) {
	s.Root.Add(o)
}

func (s *Scene) AddGroup(g *Group) {
	s.Root.AddGroup(g)
}

func (s *Scene) Len() int {
	return s.Root.Len()
}

// Flatten walks the scene depth first and returns one object per placed
// geometry, with every enclosing group matrix folded into the geometry's own
// matrix. Geometries held by the scene are not modified; the returned
// objects carry instanced copies and keep the ID and name of their source.
func (s *Scene) Flatten() []*Object {
	out := make([]*Object, 0, s.Len())
	return flatten(out, s.Root, math.NewMat4Identity())
}

func flatten(out []*Object, g *Group, parent math.Mat4) []*Object {
	world := g.Transform.Mul(parent)
	for _, o := range g.Objects {
		m := o.Geometry.TransformationMatrix().Mul(world)
		out = append(out, &Object{
			ID:       o.ID,
			Name:     o.Name,
			Geometry: o.Geometry.Transform(m),
		})
	}
	for _, child := range g.Groups {
		out = flatten(out, child, world)
	}
	return out
}
