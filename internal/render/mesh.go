package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

// Plane is a unit square in the XY plane centred on the origin, split into a
// grid of segments. Vertices are stored row by row from the top edge.
type Plane struct {
	WidthSegments  int
	HeightSegments int
	Positions      []mgl64.Vec3
	UVs            []mgl64.Vec2
	Indices        []uint16
}

// NewPlane builds the grid. Segment counts below one are raised to one.
func NewPlane(widthSegments, heightSegments int) *Plane {
	if widthSegments < 1 {
		widthSegments = 1
	}
	if heightSegments < 1 {
		heightSegments = 1
	}
	cols, rows := widthSegments+1, heightSegments+1
	p := &Plane{
		WidthSegments:  widthSegments,
		HeightSegments: heightSegments,
		Positions:      make([]mgl64.Vec3, 0, cols*rows),
		UVs:            make([]mgl64.Vec2, 0, cols*rows),
		Indices:        make([]uint16, 0, widthSegments*heightSegments*6),
	}
	for r := 0; r < rows; r++ {
		v := float64(r) / float64(heightSegments)
		for c := 0; c < cols; c++ {
			u := float64(c) / float64(widthSegments)
			p.Positions = append(p.Positions, mgl64.Vec3{u - 0.5, 0.5 - v, 0})
			p.UVs = append(p.UVs, mgl64.Vec2{u, v})
		}
	}
	for r := 0; r < heightSegments; r++ {
		for c := 0; c < widthSegments; c++ {
			a := uint16(r*cols + c)
			b := a + 1
			d := uint16((r+1)*cols + c)
			e := d + 1
			p.Indices = append(p.Indices, a, d, b, b, d, e)
		}
	}
	return p
}

// Row returns the vertex index range [start, end) of grid row r.
func (p *Plane) Row(r int) (start, end int) {
	cols := p.WidthSegments + 1
	return r * cols, (r + 1) * cols
}

// Mesh places a plane in the scene with an effect and an optional texture.
type Mesh struct {
	Plane    *Plane
	Effect   *Effect
	Texture  Texture
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	Visible  bool
}

// NewMesh returns a visible mesh with unit scale.
func NewMesh(plane *Plane, effect *Effect) *Mesh {
	return &Mesh{
		Plane:   plane,
		Effect:  effect,
		Scale:   mgl64.Vec3{1, 1, 1},
		Visible: true,
	}
}

// Model returns the mesh's model matrix.
func (m *Mesh) Model() mgl64.Mat4 {
	return mgl64.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z()).
		Mul4(mgl64.Scale3D(m.Scale.X(), m.Scale.Y(), m.Scale.Z()))
}

// World returns vertex i in world space after the effect's vertex program.
func (m *Mesh) World(model mgl64.Mat4, i int) mgl64.Vec3 {
	w := model.Mul4x1(m.Plane.Positions[i].Vec4(1)).Vec3()
	if m.Effect != nil && m.Effect.Vertex != nil {
		w = m.Effect.Vertex(w, m.Effect.Uniforms)
	}
	return w
}

// ScreenVertex is a projected vertex in pixels with its texture coordinate.
type ScreenVertex struct {
	X, Y float64
	U, V float64
}

// Project transforms every vertex of m to screen pixels. ok is false when any
// vertex falls behind the camera.
func (m *Mesh) Project(viewProj mgl64.Mat4, screen viewport.ScreenSize, dst []ScreenVertex) (out []ScreenVertex, ok bool) {
	out = dst[:0]
	model := m.Model()
	for i := range m.Plane.Positions {
		x, y, visible := viewport.ProjectWith(viewProj, m.World(model, i), screen)
		if !visible {
			return out, false
		}
		uv := m.Plane.UVs[i]
		out = append(out, ScreenVertex{X: x, Y: y, U: uv.X(), V: uv.Y()})
	}
	return out, true
}

// Scene is the ordered set of meshes drawn each frame. It is built during
// setup and only touched from the frame goroutine afterwards.
type Scene struct {
	meshes []*Mesh
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add appends m to the draw order.
func (s *Scene) Add(m *Mesh) {
	s.meshes = append(s.meshes, m)
}

// Meshes returns the draw list. Callers must not modify it.
func (s *Scene) Meshes() []*Mesh {
	return s.meshes
}

// Bend is the gallery vertex program: it pushes vertices along Z by a sine of
// their height in the viewport, scaled by the Strength uniform, so planes
// curve away from the camera while the gallery moves.
func Bend(world mgl64.Vec3, u Uniforms) mgl64.Vec3 {
	strength := u.Float(UniformStrength)
	if strength == 0 {
		return world
	}
	_, vh := u.Vec2(UniformViewportSize)
	if vh <= 0 {
		return world
	}
	world[2] += math.Sin(world.Y()/vh*math.Pi+math.Pi/2) * -strength
	return world
}

// CoverRatio returns the fraction of the texture visible on each axis when an
// image is scaled to cover a plane while keeping its aspect ratio. Unknown
// sizes yield the full texture.
func CoverRatio(planeW, planeH, imageW, imageH float64) (rx, ry float64) {
	if planeW <= 0 || planeH <= 0 || imageW <= 0 || imageH <= 0 {
		return 1, 1
	}
	rx = math.Min((planeW/planeH)/(imageW/imageH), 1)
	ry = math.Min((planeH/planeW)/(imageH/imageW), 1)
	return rx, ry
}

// CoverUV maps a plane UV into the centred, cropped texture UV.
func CoverUV(u, v, rx, ry float64) (float64, float64) {
	return u*rx + (1-rx)*0.5, v*ry + (1-ry)*0.5
}
