package input

// Key is a virtual key code. Values match GLFW key codes, which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key uint32

const (
	KeyW     Key = 87 // W key (ASCII)
	KeyA     Key = 65 // A key (ASCII)
	KeyS     Key = 83 // S key (ASCII)
	KeyD     Key = 68 // D key (ASCII)
	KeyQ     Key = 81 // Q key (ASCII)
	KeyE     Key = 69 // E key (ASCII)
	KeyR     Key = 82 // R key (ASCII)
	KeyX     Key = 88 // X key (ASCII)
	KeySpace Key = 32 // Spacebar (ASCII)

	KeyEsc       Key = 256 // Escape key (GLFW)
	KeyBackspace Key = 259 // Backspace key (GLFW)
)

// Arrow and modifier keys
const (
	KeyRight Key = 262
	KeyLeft  Key = 263
	KeyDown  Key = 264
	KeyUp    Key = 265

	KeyLeftShift  Key = 340
	KeyRightShift Key = 344
)

// MaxKey bounds the key code space. Sources may size their key state tables with it.
const MaxKey Key = 348
