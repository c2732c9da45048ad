package pdf

import "context"

// MinimalFallback is the last tier: a fixed single-line document, built once
// from constant input. It ignores the HTML entirely and cannot fail, so the
// chain always terminates with bytes.
type MinimalFallback struct{}

func NewMinimalFallback() *MinimalFallback { return &MinimalFallback{} }

var minimalDocument = buildSimplePDF(
	"Lease Document",
	[]string{"The lease document could not be generated. Please contact the property office."},
)

func (s *MinimalFallback) Name() string { return "minimal fallback" }

func (s *MinimalFallback) Render(ctx context.Context, html string) ([]byte, error) {
	out := make([]byte, len(minimalDocument))
	copy(out, minimalDocument)
	return out, nil
}
