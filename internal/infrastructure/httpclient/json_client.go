package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio_tracker/internal/infrastructure/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnexpectedStatus is returned when a remote endpoint answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// JSONClient performs GET requests with fasthttp and decodes JSON bodies.
type JSONClient struct {
	client  *fasthttp.Client
	timeout time.Duration
	name    string
}

// NewJSONClient creates a JSONClient. name is used as the metrics client label.
func NewJSONClient(name string, timeout time.Duration) *JSONClient {
	return &JSONClient{
		client: &fasthttp.Client{
			Name:                name,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		timeout: timeout,
		name:    name,
	}
}

// GetJSON requests url and unmarshals a 200 response body into dest.
// The context deadline wins over the default timeout when it is set.
func (c *JSONClient) GetJSON(ctx context.Context, method, url string, headers map[string]string, dest any) (err error) {
	start := time.Now()
	defer func() { metrics.CollectRequestsMetric(c.name, method, err, start) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		return fmt.Errorf("failed to execute request to %s: %w", url, err)
	}

	body := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("%w: %s answered %d: %s", ErrUnexpectedStatus, url, resp.StatusCode(), truncate(body, 256))
	}
	if err = json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", url, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
