package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle is an option builder that sets the window title.
//
// Parameters:
//   - title: the title bar text
//
// Returns:
//   - WindowBuilderOption: the option
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize is an option builder that sets the initial window size.
//
// Parameters:
//   - width, height: the initial size in pixels
//
// Returns:
//   - WindowBuilderOption: the option
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithWidth is an option builder that sets the initial window width.
//
// Parameters:
//   - width: the initial width in pixels
//
// Returns:
//   - WindowBuilderOption: the option
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight is an option builder that sets the initial window height.
//
// Parameters:
//   - height: the initial height in pixels
//
// Returns:
//   - WindowBuilderOption: the option
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithSizeLimits is an option builder that bounds window resizing.
//
// Parameters:
//   - minWidth, minHeight: the minimum size in pixels
//   - maxWidth, maxHeight: the maximum size in pixels
//
// Returns:
//   - WindowBuilderOption: the option
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
		w.minHeight = minHeight
		w.maxWidth = maxWidth
		w.maxHeight = maxHeight
	}
}
