package renderer

import "github.com/cogentcore/webgpu/wgpu"

// BackendType identifies the GPU backend implementation. wgpu-native is the
// only one this module ships, matching the teacher's single BackendTypeWGPU.
type BackendType int

const (
	BackendTypeWGPU BackendType = iota
)

// PresentMode controls how rendered frames are presented to a surface.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank, matching spec.md §4.3's
	// "Vsync defaults on".
	PresentModeVSync PresentMode = iota
	PresentModeUncapped
)

func (m PresentMode) wgpu() wgpu.PresentMode {
	switch m {
	case PresentModeVSync:
		return wgpu.PresentModeFifo
	default:
		return wgpu.PresentModeImmediate
	}
}

// surfaceSource is satisfied by any drawable that can hand back a real
// wgpu.SurfaceDescriptor. engine/window.Window (used by the glfwpreview
// backend) implements this directly.
type surfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// gpuSurfaceSource is satisfied by drawables that may or may not be able to
// produce a wgpu surface descriptor, returning an error when they cannot.
// wayland.Surface implements this — see its GPUSurfaceDescriptor doc comment
// for why a pure wire-protocol client cannot satisfy surfaceSource directly.
type gpuSurfaceSource interface {
	GPUSurfaceDescriptor() (*wgpu.SurfaceDescriptor, error)
}

// surfaceDescriptorFrom resolves any platform drawable into a wgpu surface
// descriptor, or an error naming why it cannot be used as a live GPU
// surface. This is the one place the renderer has to know about the two
// shapes platform.Platform.CreateSurface can return.
func surfaceDescriptorFrom(drawable any) (*wgpu.SurfaceDescriptor, error) {
	switch d := drawable.(type) {
	case surfaceSource:
		return d.SurfaceDescriptor(), nil
	case gpuSurfaceSource:
		return d.GPUSurfaceDescriptor()
	default:
		return nil, errUnsupportedDrawable(drawable)
	}
}
