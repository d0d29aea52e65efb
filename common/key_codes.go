package common

// Virtual key codes matching GLFW, which uses ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	// Scene rotation keys.
	KeyW = 87
	KeyA = 65
	KeyS = 83
	KeyD = 68

	// Light toggle keys.
	KeyF = 70
	KeyG = 71
	KeyV = 86

	KeySpace = 32
	KeyEsc   = 256 // GLFW, not ASCII
)
