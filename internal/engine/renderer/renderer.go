// Package renderer draws tiled terrain with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/terragrid/internal/engine/shader"
	"github.com/Faultbox/terragrid/internal/logger"
	"github.com/Faultbox/terragrid/internal/terrain"
	"github.com/Faultbox/terragrid/pkg/math"
)

// Renderable is anything that can be drawn as a sequence of terrain tile
// instances. TileGrid and SingleMesh both satisfy it.
type Renderable interface {
	ForEachTile(fn func(terrain.TileInstance) bool)
}

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Material holds Blinn-Phong lighting terms for the terrain surface.
type Material struct {
	Ambient  math.Vec3
	Diffuse  math.Vec3
	Specular math.Vec3
}

// RenderState holds everything a frame needs besides the geometry.
type RenderState struct {
	View       math.Mat4
	Projection math.Mat4
	LightDir   math.Vec3 // direction toward the light, world space
	Material   Material
}

// tileBuffer is the GPU copy of one tile's mesh.
type tileBuffer struct {
	vao     uint32
	vbo     uint32
	ebo     uint32
	count   int32
	version uint64
}

// Renderer owns the terrain shader program and a cache of per-tile GPU
// buffers. Buffers are re-uploaded when a tile's mesh version moves past
// the cached one.
type Renderer struct {
	config Config

	program     uint32
	uModel      int32
	uView       int32
	uProjection int32
	uLight      int32
	uAmbient    int32
	uDiffuse    int32
	uSpecular   int32

	tiles map[[2]int]*tileBuffer
}

// New creates a new renderer. Must be called after the OpenGL context is
// created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		tiles:  make(map[[2]int]*tileBuffer),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.55, 0.72, 0.9, 1.0) // sky

	program, err := shader.CompileProgram(terrainVertexShader, terrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	r.program = program
	r.uModel = shader.MustGetUniform(program, "model_matrix")
	r.uView = shader.MustGetUniform(program, "view_matrix")
	r.uProjection = shader.MustGetUniform(program, "perspective_matrix")
	r.uLight = shader.MustGetUniform(program, "u_light")
	r.uAmbient = shader.MustGetUniform(program, "u_mat_ambient")
	r.uDiffuse = shader.MustGetUniform(program, "u_mat_diffuse")
	r.uSpecular = shader.MustGetUniform(program, "u_mat_specular")

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Close deletes the shader program and all cached tile buffers.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for key, buf := range r.tiles {
		buf.delete()
		delete(r.tiles, key)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the current width/height ratio.
func (r *Renderer) Aspect() float32 {
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders every tile of the renderable with the given state.
func (r *Renderer) Draw(surface Renderable, state RenderState) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uView, 1, false, state.View.Ptr())
	gl.UniformMatrix4fv(r.uProjection, 1, false, state.Projection.Ptr())
	gl.Uniform3f(r.uLight, state.LightDir.X, state.LightDir.Y, state.LightDir.Z)
	m := state.Material
	gl.Uniform3f(r.uAmbient, m.Ambient.X, m.Ambient.Y, m.Ambient.Z)
	gl.Uniform3f(r.uDiffuse, m.Diffuse.X, m.Diffuse.Y, m.Diffuse.Z)
	gl.Uniform3f(r.uSpecular, m.Specular.X, m.Specular.Y, m.Specular.Z)

	surface.ForEachTile(func(inst terrain.TileInstance) bool {
		if inst.Mesh == nil || len(inst.Mesh.Indices) == 0 {
			return true
		}
		buf := r.upload(inst)
		gl.UniformMatrix4fv(r.uModel, 1, false, inst.Transform.Ptr())
		gl.BindVertexArray(buf.vao)
		gl.DrawElements(gl.TRIANGLES, buf.count, gl.UNSIGNED_INT, nil)
		return true
	})
	gl.BindVertexArray(0)
}

// upload returns the cached GPU buffers for a tile, re-uploading the mesh
// if the tile was regenerated since the last frame.
func (r *Renderer) upload(inst terrain.TileInstance) *tileBuffer {
	key := [2]int{inst.Row, inst.Col}
	buf, ok := r.tiles[key]
	if ok && buf.version == inst.Version {
		return buf
	}
	if !ok {
		buf = &tileBuffer{}
		gl.GenVertexArrays(1, &buf.vao)
		gl.GenBuffers(1, &buf.vbo)
		gl.GenBuffers(1, &buf.ebo)
		r.tiles[key] = buf
	}

	mesh := inst.Mesh
	const stride = int32(unsafe.Sizeof(terrain.Vertex{}))

	gl.BindVertexArray(buf.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride),
		unsafe.Pointer(&mesh.Vertices[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4,
		unsafe.Pointer(&mesh.Indices[0]), gl.DYNAMIC_DRAW)

	// position, normal, tex_uv
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	buf.count = int32(len(mesh.Indices))
	buf.version = inst.Version
	return buf
}

// Evict drops the cached buffers for tiles the predicate rejects. Call
// with the live tile set after tearing down a TileGrid, or with nil to
// drop everything.
func (r *Renderer) Evict(keep func(row, col int) bool) {
	for key, buf := range r.tiles {
		if keep != nil && keep(key[0], key[1]) {
			continue
		}
		buf.delete()
		delete(r.tiles, key)
	}
}

func (b *tileBuffer) delete() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
	}
}
