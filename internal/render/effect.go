package render

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Uniform names understood by the gallery effect.
const (
	UniformPlaneSize    = "PlaneSize"
	UniformImageSize    = "ImageSize"
	UniformViewportSize = "ViewportSize"
	UniformStrength     = "Strength"
)

// UniformKind is the GLSL-like type of a uniform.
type UniformKind int

const (
	Float UniformKind = iota
	Vec2
)

// UniformSpec declares an effect's uniforms and their kinds.
type UniformSpec map[string]UniformKind

// GalleryUniforms is the uniform set of the gallery plane effect.
var GalleryUniforms = UniformSpec{
	UniformPlaneSize:    Vec2,
	UniformImageSize:    Vec2,
	UniformViewportSize: Vec2,
	UniformStrength:     Float,
}

// VertexFunc displaces a world-space vertex. It stands in for a vertex
// program, run on the CPU before projection.
type VertexFunc func(world mgl64.Vec3, u Uniforms) mgl64.Vec3

// Uniforms holds an effect's current uniform values as float32 slices, the
// representation ebiten shaders accept.
type Uniforms map[string]any

// Float returns a float uniform, or 0.
func (u Uniforms) Float(name string) float64 {
	if v, ok := u[name].(float32); ok {
		return float64(v)
	}
	return 0
}

// Vec2 returns a vec2 uniform, or the zero vector.
func (u Uniforms) Vec2(name string) (x, y float64) {
	if v, ok := u[name].([]float32); ok && len(v) == 2 {
		return float64(v[0]), float64(v[1])
	}
	return 0, 0
}

// Effect is a compiled shader program plus its uniform values.
type Effect struct {
	Spec     UniformSpec
	Vertex   VertexFunc
	Fragment []byte
	Uniforms Uniforms

	// Program is the backend's compiled fragment program, if any.
	Program any
}

// NewEffect validates spec and creates an effect with zeroed uniforms.
func NewEffect(vertex VertexFunc, fragment []byte, spec UniformSpec) (*Effect, error) {
	e := &Effect{
		Spec:     spec,
		Vertex:   vertex,
		Fragment: fragment,
		Uniforms: make(Uniforms, len(spec)),
	}
	for name, kind := range spec {
		switch kind {
		case Float:
			e.Uniforms[name] = float32(0)
		case Vec2:
			e.Uniforms[name] = []float32{0, 0}
		default:
			return nil, fmt.Errorf("uniform %q: unknown kind %d", name, kind)
		}
	}
	return e, nil
}

// Set stores a uniform value. Accepted values are float64, float32,
// [2]float64 and []float32; names outside the spec, mismatched kinds and
// non-finite numbers are ignored and reported as false.
func (e *Effect) Set(name string, value any) bool {
	kind, ok := e.Spec[name]
	if !ok {
		return false
	}
	switch kind {
	case Float:
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		default:
			return false
		}
		if !finite(f) {
			return false
		}
		e.Uniforms[name] = float32(f)
	case Vec2:
		var x, y float64
		switch v := value.(type) {
		case [2]float64:
			x, y = v[0], v[1]
		case []float32:
			if len(v) != 2 {
				return false
			}
			x, y = float64(v[0]), float64(v[1])
		default:
			return false
		}
		if !finite(x) || !finite(y) {
			return false
		}
		e.Uniforms[name] = []float32{float32(x), float32(y)}
	}
	return true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
