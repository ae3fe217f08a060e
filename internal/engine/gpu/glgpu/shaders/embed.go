// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PaintVertexShader lays a mesh out in its UV parametrisation.
//
//go:embed paint.vert
var PaintVertexShader string

// StampFragmentShader blends the radial brush, or writes island ids in the
// prepare pass.
//
//go:embed stamp.frag
var StampFragmentShader string

// BlitVertexShader draws a fullscreen triangle.
//
//go:embed blit.vert
var BlitVertexShader string

// CopyFragmentShader copies the source texel.
//
//go:embed copy.frag
var CopyFragmentShader string

// ExtendFragmentShader bleeds island colour into the surrounding gutter.
//
//go:embed extend.frag
var ExtendFragmentShader string

// DecayFragmentShader fades coverage over time.
//
//go:embed decay.frag
var DecayFragmentShader string

// ViewVertexShader is the vertex shader for the 3D surface preview.
//
//go:embed view.vert
var ViewVertexShader string

// ViewFragmentShader composites paint over the surface base colour.
//
//go:embed view.frag
var ViewFragmentShader string
