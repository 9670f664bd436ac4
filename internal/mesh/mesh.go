// Package mesh owns page geometry and the curl deformation applied to it.
package mesh

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidGeometry is returned when a page plane cannot be built from the given dimensions.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// Vertex is a single position in a page's vertex buffer.
type Vertex struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Geometry is a flat page plane whose spine lies on x=0 and whose free edge lies on x=Width.
type Geometry struct {
	Width     float32
	Height    float32
	SegmentsW int
	SegmentsH int

	rest    []Vertex
	indices []uint32
}

// NewGeometry builds a plane of width x height split into segW x segH quads.
// Vertices are laid out row by row from the top edge (y=+height/2) downward,
// left to right within a row.
func NewGeometry(width, height float32, segW, segH int) (*Geometry, error) {
	if segW <= 0 || segH <= 0 {
		return nil, fmt.Errorf("%w: segments %dx%d", ErrInvalidGeometry, segW, segH)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: size %gx%g", ErrInvalidGeometry, width, height)
	}

	g := &Geometry{
		Width:     width,
		Height:    height,
		SegmentsW: segW,
		SegmentsH: segH,
		rest:      make([]Vertex, 0, (segW+1)*(segH+1)),
		indices:   make([]uint32, 0, segW*segH*6),
	}

	segWidth := width / float32(segW)
	segHeight := height / float32(segH)
	halfHeight := height / 2

	for iy := 0; iy <= segH; iy++ {
		y := halfHeight - float32(iy)*segHeight
		for ix := 0; ix <= segW; ix++ {
			g.rest = append(g.rest, Vertex{X: float32(ix) * segWidth, Y: y})
		}
	}

	row := uint32(segW + 1)
	for iy := 0; iy < segH; iy++ {
		for ix := 0; ix < segW; ix++ {
			a := uint32(ix) + row*uint32(iy)
			b := uint32(ix) + row*uint32(iy+1)
			c := uint32(ix+1) + row*uint32(iy+1)
			d := uint32(ix+1) + row*uint32(iy)
			g.indices = append(g.indices, a, b, d, b, c, d)
		}
	}

	return g, nil
}

// Rest returns a copy of the undeformed vertex positions.
func (g *Geometry) Rest() []Vertex {
	out := make([]Vertex, len(g.rest))
	copy(out, g.rest)
	return out
}

// Indices returns a copy of the triangle index buffer.
func (g *Geometry) Indices() []uint32 {
	out := make([]uint32, len(g.indices))
	copy(out, g.indices)
	return out
}

// VertexCount returns the number of vertices in the plane.
func (g *Geometry) VertexCount() int {
	return len(g.rest)
}

// Apply deforms the rest positions of g by bend into out.
func (g *Geometry) Apply(bend float32, out []Vertex) {
	Deform(g.rest, g.Width, bend, out)
}

// Deform writes the curled position of every rest vertex into out.
//
// The z offset grows with the cube of the normalized distance from the spine,
// so the spine never moves and the free edge moves by exactly bend.
// A zero spineWidth pins every vertex to its rest position.
// out must be at least as long as rest.
func Deform(rest []Vertex, spineWidth, bend float32, out []Vertex) {
	for i, v := range rest {
		var nx float32
		if spineWidth != 0 {
			nx = v.X / spineWidth
		}
		out[i] = Vertex{X: v.X, Y: v.Y, Z: v.Z + bend*math32.Pow(nx, 3)}
	}
}

// Flatten serializes vertices into an interleaved x,y,z buffer.
func Flatten(vertices []Vertex) []float32 {
	buf := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		buf = append(buf, v.X, v.Y, v.Z)
	}
	return buf
}
