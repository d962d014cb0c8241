package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"portfolio_tracker/internal/app/port"

	"golang.org/x/time/rate"
)

const (
	coinGeckoClientName = "coingecko"
	coinGeckoKeyHeader  = "x-cg-demo-api-key"
)

type coinGeckoPrice struct {
	USD *float64 `json:"usd"`
}

// CoinGeckoClient implements port.PriceAPI over the CoinGecko simple price endpoint.
type CoinGeckoClient struct {
	http    *JSONClient
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	logger  port.Logger
}

// NewCoinGeckoClient creates a client limited to ratePerMinute requests with the given burst.
// A non-positive ratePerMinute disables the limiter.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration, ratePerMinute, burst int, log port.Logger) *CoinGeckoClient {
	limit := rate.Inf
	if ratePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(ratePerMinute))
	}
	if burst < 1 {
		burst = 1
	}
	return &CoinGeckoClient{
		http:    NewJSONClient(coinGeckoClientName, timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		limiter: rate.NewLimiter(limit, burst),
		logger:  log.With("component", "coingecko_client"),
	}
}

// FetchUSDPrices returns the USD price of each id CoinGecko knows. Unknown ids are absent from the result.
func (c *CoinGeckoClient) FetchUSDPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	requestURL := c.baseURL + "/simple/price?" + q.Encode()

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{coinGeckoKeyHeader: c.apiKey}
	}

	c.logger.Debug("Requesting prices from CoinGecko", "ids", len(ids))

	var body map[string]coinGeckoPrice
	if err := c.http.GetJSON(ctx, "simple_price", requestURL, headers, &body); err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(body))
	for id, p := range body {
		if p.USD == nil {
			continue
		}
		prices[id] = *p.USD
	}
	return prices, nil
}

var _ port.PriceAPI = (*CoinGeckoClient)(nil)
