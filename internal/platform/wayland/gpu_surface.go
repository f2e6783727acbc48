package wayland

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUSurfaceDescriptor would build a wgpu.SurfaceDescriptor from this
// surface's wl_surface for renderer.Renderer.CreateMonitorSurface.
//
// It cannot: wgpu-native's Wayland WSI path (SurfaceDescriptorFromWayland
// Surface) needs the real libwayland-client wl_display*/wl_surface* proxy
// objects the way EGL and Vulkan do, and this package is a from-scratch
// pure-Go wire-protocol client with no libwayland-client linked in — its
// Display and Surface only ever carry protocol object IDs, never a real C
// proxy pointer. Producing one would mean either linking libwayland-client
// via cgo (ruled out to keep this module cgo-free) or a pure-Go WSI path
// the wgpu-native binding does not expose today. The glfwpreview backend's
// engine/window.Window is the one drawable that can satisfy
// renderer.CreateMonitorSurface on the current stack.
func (s *Surface) GPUSurfaceDescriptor() (*wgpu.SurfaceDescriptor, error) {
	return nil, fmt.Errorf("wayland: GPUSurfaceDescriptor: no cgo libwayland-client binding available for this pure-Go client")
}
