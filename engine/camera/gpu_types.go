package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUCameraUniformSize is the byte size of the camera uniform block.
const GPUCameraUniformSize = 80

// GPUCameraUniformSource is the WGSL declaration of the camera uniform block.
// Shaders that read the camera include it verbatim so the layout cannot drift from GPUCameraUniform.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the std430-aligned camera block uploaded once per frame.
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: projection · view, column-major (mat4x4<f32>)
	CameraPosition [3]float32  // offset 64: world-space eye position (vec3<f32>)
	_pad           float32     // offset 76
}

// Marshal serializes the uniform into a little-endian byte buffer ready for Queue.WriteBuffer.
//
// Returns:
//   - []byte: GPUCameraUniformSize bytes
func (g GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, 0, GPUCameraUniformSize)
	for _, v := range g.ViewProj {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	for _, v := range g.CameraPosition {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return binary.LittleEndian.AppendUint32(buf, 0)
}
