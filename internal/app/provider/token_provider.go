package provider

import (
	"context"
	"errors"
	"fmt"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
)

// TokenListSource is one place the token list can be loaded from.
type TokenListSource interface {
	Load(ctx context.Context) ([]entity.TokenMetadata, error)
}

// TokenListProvider loads the token list from an ordered set of sources.
type TokenListProvider struct {
	sources []TokenListSource
	logger  port.Logger
}

// NewTokenProvider returns a provider trying sources in order until one yields a non-empty list.
func NewTokenProvider(logger port.Logger, sources ...TokenListSource) *TokenListProvider {
	return &TokenListProvider{sources: sources, logger: logger}
}

// GetTokens loads the token list from the first healthy source.
func (p *TokenListProvider) GetTokens(ctx context.Context) ([]entity.TokenMetadata, error) {
	if len(p.sources) == 0 {
		return nil, fmt.Errorf("no token list source configured")
	}
	var errs []error
	for i, src := range p.sources {
		tokens, err := src.Load(ctx)
		if err == nil && len(tokens) > 0 {
			if i > 0 {
				p.logger.Warn("Token list served by fallback source", "source_index", i)
			}
			return tokens, nil
		}
		if err == nil {
			err = fmt.Errorf("source %d returned an empty list", i)
		}
		p.logger.Debug("Token list source failed", "source_index", i, "error", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
