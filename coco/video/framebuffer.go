package video

// FramebufferWidth and FramebufferHeight are the VDG's fixed output
// resolution, shared by every mode (text and graphics modes differ only in
// cell size, never in overall screen dimensions).
const (
	FramebufferWidth  = 256
	FramebufferHeight = 192
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// FrameBuffer holds one rendered VDG frame as packed 0x00RRGGBB pixels.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer allocates a framebuffer cleared to black.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint32, FramebufferSize),
	}
}

func (fb FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

// Width and Height satisfy backend.Framebuffer.
func (fb *FrameBuffer) Width() int  { return int(fb.width) }
func (fb *FrameBuffer) Height() int { return int(fb.height) }

func (fb *FrameBuffer) SetPixel(x, y uint, color uint32) {
	fb.buffer[y*fb.width+x] = color
}

// ToSlice exposes the backing buffer directly; the VDG renders straight into
// it rather than through SetPixel on the hot path.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// Clear resets the framebuffer to a black screen.
func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = 0
	}
}

// ToBinaryData returns the framebuffer as raw big-endian RGB bytes (the low
// 3 bytes of each packed pixel), for snapshot-style test comparison.
func (fb *FrameBuffer) ToBinaryData() []byte {
	data := make([]byte, len(fb.buffer)*3)
	for i, pixel := range fb.buffer {
		data[i*3] = byte(pixel >> 16)
		data[i*3+1] = byte(pixel >> 8)
		data[i*3+2] = byte(pixel)
	}
	return data
}
