package dataapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/platform/logging"
	"github.com/riskibarqy/afl-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

const (
	dataPath        = "/api/data"
	keyHeader       = "x-data-key"
	maxResponseSize = 64 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type CircuitBreakerConfig = resilience.CircuitBreakerConfig

// Client fetches parsed datasets from a data endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, apiKey string, timeout time.Duration, breakerCfg CircuitBreakerConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("data api circuit changed state", "from", string(from), "to", string(to))
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		breaker:    resilience.NewCircuitBreaker(breakerCfg),
		logger:     logger,
	}
}

func (c *Client) Fetch(ctx context.Context, file string) ([]dataset.RawRow, error) {
	endpoint := c.fileURL(file)

	var rows []dataset.RawRow
	err := c.breaker.Execute(func() error {
		out, err := c.fetch(ctx, endpoint, file)
		if err != nil {
			return err
		}
		rows = out
		return nil
	}, countAsFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, errors.Mark(errors.Wrapf(err, "load %s", file), usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) fetch(ctx context.Context, endpoint, file string) ([]dataset.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create data request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(keyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "request %s", endpoint), usecase.ErrDependencyUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.apiKey != "" {
			return nil, errors.Mark(errors.Newf("Unauthorized calling %s (check DATA_API_CLIENT_KEY matches DATA_API_KEY)", endpoint), usecase.ErrUnauthorized)
		}
		return nil, errors.Mark(errors.Newf("Unauthorized calling %s (no DATA_API_CLIENT_KEY set)", endpoint), usecase.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "data api non-2xx",
			"file", file,
			"status_code", resp.StatusCode,
		)
		return nil, statusError{file: file, status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response", file)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Wrapf(err, "decode %s response", file)
	}
	return toRows(decoded), nil
}

// toRows keeps object elements of an array body. Any other body is empty.
func toRows(v any) []dataset.RawRow {
	items, ok := v.([]any)
	if !ok {
		return []dataset.RawRow{}
	}
	rows := make([]dataset.RawRow, 0, len(items))
	for _, item := range items {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func (c *Client) fileURL(file string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(dataPath)
	_, _ = buf.WriteString("?file=")
	_, _ = buf.WriteString(url.QueryEscape(strings.TrimSpace(file)))
	return buf.String()
}

type statusError struct {
	file   string
	status int
}

func (e statusError) Error() string {
	return "failed to load " + e.file + " via API (" + strconv.Itoa(e.status) + ")"
}

// countAsFailure trips the breaker on transport errors and 5xx only.
func countAsFailure(err error) bool {
	var se statusError
	if errors.As(err, &se) {
		return se.status >= http.StatusInternalServerError
	}
	return !errors.Is(err, usecase.ErrUnauthorized) && !errors.Is(err, context.Canceled)
}
