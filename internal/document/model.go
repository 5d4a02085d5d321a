package document

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/geom/kernel"
)

// modelState is the undoable part of a model.
type modelState struct {
	model  *Model
	name   string
	body   Body
	offset geom.Point
}

// Model is a named body placed in the document.
type Model struct {
	id    string
	state modelState

	// shape caches the built shape until the state changes, so shape
	// identifiers stay stable while snap caches refer to them.
	shape geom.Shape
}

func newModel(name string, body Body) *Model {
	m := &Model{id: geom.NewID(geom.PrefixModel)}
	m.state = modelState{model: m, name: name, body: body}
	return m
}

// ID returns the model identifier.
func (m *Model) ID() string { return m.id }

// Name returns the display name.
func (m *Model) Name() string { return m.state.name }

// Body returns the parametric definition.
func (m *Model) Body() Body { return m.state.body }

// Offset returns the translation applied to the body.
func (m *Model) Offset() geom.Point { return m.state.offset }

// Shape returns the placed shape. The result is cached; it is nil only if
// the body no longer builds.
func (m *Model) Shape() geom.Shape {
	if m.shape == nil {
		s, err := m.state.build()
		if err != nil {
			return nil
		}
		m.shape = s
	}
	return m.shape
}

// Edges returns the edges of the placed shape.
func (m *Model) Edges() []geom.Edge {
	return geom.EdgesOf(m.Shape())
}

// Owns reports whether shapeID is the model's shape or one of its edges.
func (m *Model) Owns(shapeID string) bool {
	s := m.Shape()
	if s == nil {
		return false
	}
	if s.ID() == shapeID {
		return true
	}
	for _, e := range geom.EdgesOf(s) {
		if e.ID() == shapeID {
			return true
		}
	}
	return false
}

func (m *Model) String() string {
	return fmt.Sprintf("%s %s (%s)", m.state.body.Kind(), m.state.name, m.id)
}

func (m *Model) restore(s modelState) {
	m.state = s
	m.shape = nil
}

func (s modelState) build() (geom.Shape, error) {
	if s.body == nil {
		return nil, ErrEmptyBody
	}
	shape, err := s.body.Build()
	if err != nil {
		return nil, err
	}
	if geom.Length(s.offset) <= geom.Tolerance {
		return shape, nil
	}
	return kernel.Translate(shape, s.offset)
}
