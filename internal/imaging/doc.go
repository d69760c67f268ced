// Package imaging turns an image prompt into a deliverable image artifact.
//
// A Synthesizer asks a Renderer (the image-generation service) for raw image
// bytes and hands them to a Sink, which decides how the client receives
// them: inline as a data URI, written to a locally served directory, or
// uploaded to object storage. Every failure wraps ErrImageFailed; callers
// treat it as recoverable and continue without an image.
package imaging
