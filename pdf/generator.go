// Package pdf turns rendered lease HTML into a downloadable document.
//
// Generation is a degrade-gracefully chain: a headless Chromium export is
// tried first, then a hand-assembled text-only PDF, then a hardcoded minimal
// document that cannot fail. The chain as a whole never returns an empty
// result for any input.
package pdf

import (
	"context"
	"fmt"

	"github.com/roomledger/rentals_backend/utils"
	"github.com/sirupsen/logrus"
)

// Strategy is one tier of the generation chain.
type Strategy interface {
	Name() string
	Render(ctx context.Context, html string) ([]byte, error)
}

type Generator struct {
	strategies []Strategy
	logger     *logrus.Logger
}

// NewGenerator builds the standard three-tier chain. The final tier is total,
// so Render practically cannot fail.
func NewGenerator(logger *logrus.Logger) *Generator {
	return &Generator{
		strategies: []Strategy{
			NewChromiumStrategy(),
			NewStructuredFallback(),
			NewMinimalFallback(),
		},
		logger: logger,
	}
}

// NewGeneratorWithStrategies is for tests and tools that need a custom chain.
func NewGeneratorWithStrategies(logger *logrus.Logger, strategies ...Strategy) *Generator {
	return &Generator{strategies: strategies, logger: logger}
}

// Render tries each tier in order. A non-empty warning means a fallback tier
// produced the bytes; the error is non-nil only if every tier failed.
func (g *Generator) Render(ctx context.Context, html string) (data []byte, warning string, err error) {
	var firstErr error
	for i, strategy := range g.strategies {
		data, renderErr := strategy.Render(ctx, html)
		if renderErr != nil {
			if firstErr == nil {
				firstErr = renderErr
			}
			if g.logger != nil {
				g.logger.WithFields(logrus.Fields{
					"module":   "pdf",
					"strategy": strategy.Name(),
					"tier":     i + 1,
				}).Warnf("document strategy failed, degrading: %v", renderErr)
			}
			continue
		}
		if firstErr != nil {
			warning = fmt.Sprintf("primary document pipeline failed (%v); produced %s output instead", firstErr, strategy.Name())
		}
		return data, warning, nil
	}
	return nil, "", fmt.Errorf("%w: all document strategies failed: %v", utils.ErrorExternalFailure, firstErr)
}
