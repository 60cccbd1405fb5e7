package common

// Virtual key codes for the viewport host.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyF     = 70  // F key (ASCII), focus on origin in the demo host
	KeyH     = 72  // H key (ASCII), toggle horizon leveling
	KeyR     = 82  // R key (ASCII), reset camera state
	KeySpace = 32  // Spacebar (ASCII), stop all motion
	KeyEsc   = 256 // Escape key (GLFW)
	KeyTab   = 258 // Tab key (GLFW), cycle viewport focus
)

// Mouse button indices as reported by GLFW.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#MouseButton
const (
	MouseButtonLeft   = 0
	MouseButtonRight  = 1
	MouseButtonMiddle = 2
)
