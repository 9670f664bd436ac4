package flip

import "github.com/ayusman/brochure/internal/mesh"

// Stacking offsets along z. Unturned pages stack with page 0 on top; turned
// pages are lifted and stack in turn order on the opposite side.
const (
	restDepthStep   = 0.005
	turnedDepthStep = 0.006
	turnedDepthLift = 0.1
)

// Page is one sheet of the brochure.
type Page struct {
	Index    int
	Rotation float32
	Bend     float32
	Flipped  bool
	Depth    float32

	// Positions is the deformed vertex buffer handed to the renderer.
	Positions []mesh.Vertex

	geometry *mesh.Geometry
}

func newPage(index, count int, g *mesh.Geometry) *Page {
	p := &Page{
		Index:     index,
		Depth:     restDepth(index, count),
		Positions: g.Rest(),
		geometry:  g,
	}
	return p
}

// Geometry returns the rest geometry shared by all pages.
func (p *Page) Geometry() *mesh.Geometry {
	return p.geometry
}

// deform recomputes Positions from the current bend.
func (p *Page) deform() {
	p.geometry.Apply(p.Bend, p.Positions)
}

func restDepth(index, count int) float32 {
	return float32(count-index) * restDepthStep
}

func turnedDepth(index int) float32 {
	return float32(index+1)*turnedDepthStep + turnedDepthLift
}
