package algorithm

// Algorithm names the strategy that actually produced a result list.
type Algorithm string

// Algorithm constants.
const (
	Text Algorithm = "text"
	// TextFallback is lexical search served in place of a semantic request.
	TextFallback Algorithm = "text-fallback"
	Semantic     Algorithm = "semantic"
	Hybrid       Algorithm = "hybrid"
)

// IsValid checks if the algorithm is one of the supported values.
func (a Algorithm) IsValid() bool {
	return a == Text || a == TextFallback || a == Semantic || a == Hybrid
}

// Degraded reports whether a cheaper strategy replaced the requested one.
func (a Algorithm) Degraded() bool { return a == TextFallback }
