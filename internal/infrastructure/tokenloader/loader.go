package tokenloader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/httpclient"
	"portfolio_tracker/internal/pkg/utils"
)

const tokenListClientName = "token_list"

// tokenList is the Solana token list document.
type tokenList struct {
	Name   string       `json:"name"`
	Tokens []tokenEntry `json:"tokens"`
}

type tokenEntry struct {
	ChainID    int    `json:"chainId"`
	Address    string `json:"address"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Decimals   uint8  `json:"decimals"`
	LogoURI    string `json:"logoURI"`
	Extensions struct {
		CoingeckoID string `json:"coingeckoId"`
	} `json:"extensions"`
}

// TokenListLoader reads the token list from a local file when one is configured, otherwise from url.
type TokenListLoader struct {
	url    string
	file   string
	http   *httpclient.JSONClient
	logger port.Logger
}

func NewTokenListLoader(url, file string, timeout time.Duration, log port.Logger) *TokenListLoader {
	return &TokenListLoader{
		url:    url,
		file:   file,
		http:   httpclient.NewJSONClient(tokenListClientName, timeout),
		logger: log.With("component", "token_loader"),
	}
}

// Load fetches the whole list. Entries without address or symbol are skipped; the first entry of a duplicated address wins.
func (l *TokenListLoader) Load(ctx context.Context) ([]entity.TokenMetadata, error) {
	var list tokenList
	source := l.url
	if l.file != "" {
		source = l.file
		if err := utils.ReadJSONFile(l.file, &list); err != nil {
			return nil, fmt.Errorf("failed to read token list file: %w", err)
		}
	} else {
		if l.url == "" {
			return nil, fmt.Errorf("token list source is not configured")
		}
		if err := l.http.GetJSON(ctx, "get_list", l.url, nil, &list); err != nil {
			return nil, fmt.Errorf("failed to fetch token list: %w", err)
		}
	}

	tokens := make([]entity.TokenMetadata, 0, len(list.Tokens))
	seen := make(map[string]struct{}, len(list.Tokens))
	skipped := 0
	for _, t := range list.Tokens {
		address := strings.TrimSpace(t.Address)
		if address == "" || strings.TrimSpace(t.Symbol) == "" {
			skipped++
			continue
		}
		if _, dup := seen[address]; dup {
			skipped++
			continue
		}
		seen[address] = struct{}{}
		tokens = append(tokens, entity.TokenMetadata{
			Address:     address,
			Symbol:      t.Symbol,
			Name:        t.Name,
			Decimals:    t.Decimals,
			LogoURI:     t.LogoURI,
			CoingeckoID: t.Extensions.CoingeckoID,
		})
	}

	l.logger.Info("Token list loaded", "source", source, "tokens", len(tokens), "skipped", skipped)
	return tokens, nil
}
