// Package analysis builds listings on top of the decoder: symbol names,
// branch and literal resolution, string recovery and call-site tracing for
// ARM and Thumb code.
package analysis

const (
	// MaxStringLength bounds C strings read for call arguments.
	MaxStringLength = 256

	// MaxAnnotationLength bounds strings quoted in listing comments.
	MaxAnnotationLength = 128
)
