// Package classification defines the emotion classifier port used by the
// entry creation flow, along with the normalization rules that turn a raw
// classifier response into the canonical ranked distribution stored on an
// entry. Concrete adapters live under internal/platform.
package classification
