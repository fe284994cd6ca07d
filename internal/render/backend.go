// Package render defines what the gallery needs from a rendering backend:
// subdivided planes, shader effects driven by named uniforms, asynchronous
// textures and a single draw call per frame.
package render

import "github.com/nicky-ayoub/ebitgallery/internal/viewport"

// Backend is a rendering backend. Render is called once per frame from the
// frame goroutine; LoadTexture must not block.
type Backend interface {
	CreatePlane(widthSegments, heightSegments int) *Plane
	CreateShaderEffect(vertex VertexFunc, fragment []byte, spec UniformSpec) (*Effect, error)
	SetUniform(effect *Effect, name string, value any)
	LoadTexture(src string) <-chan TextureResult
	Render(scene *Scene, camera *viewport.Camera)
}

// Texture is a backend specific image handle.
type Texture interface {
	Size() (width, height int)
}

// TextureResult resolves a LoadTexture call.
type TextureResult struct {
	Texture Texture
	Err     error
}

// Resolved returns a future that has already completed with r.
func Resolved(r TextureResult) <-chan TextureResult {
	ch := make(chan TextureResult, 1)
	ch <- r
	return ch
}
