package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/aquafarm/internal/config"
)

// Client reads rows from a PostgREST endpoint.
type Client interface {
	Select(ctx context.Context, table string, filters map[string]string) ([]map[string]any, error)
}

// defaultPageSize matches the default PostgREST max-rows.
const defaultPageSize = 1000

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	pageSize   int
}

// NewClient builds a PostgREST client. Supabase expects the key both as
// apikey and as bearer token.
func NewClient(cfg config.PostgRESTConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/rest/v1", base)).
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient, pageSize: defaultPageSize}
}

// apiError mirrors the PostgREST error payload.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Select runs GET /<table>?select=* with one eq filter per entry of filters.
// Rows are fetched in Range pages until the exact count reported in
// Content-Range is reached, so a server-side max-rows cap never truncates
// the result.
func (c *APIClient) Select(ctx context.Context, table string, filters map[string]string) ([]map[string]any, error) {
	rows := make([]map[string]any, 0)
	for {
		page, total, err := c.selectPage(ctx, table, filters, len(rows))
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)

		switch {
		case total >= 0 && len(rows) >= total:
			return rows, nil
		case len(page) == 0 && total >= 0:
			return nil, fmt.Errorf("select %s: received %d of %d rows", table, len(rows), total)
		case len(page) == 0, total < 0 && len(page) < c.pageSize:
			return rows, nil
		}
	}
}

// selectPage fetches rows [offset, offset+pageSize). total is -1 when the
// server does not report a count.
func (c *APIClient) selectPage(ctx context.Context, table string, filters map[string]string, offset int) ([]map[string]any, int, error) {
	rows := make([]map[string]any, 0)
	apiErr := new(apiError)

	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetHeader("Range-Unit", "items").
		SetHeader("Range", fmt.Sprintf("%d-%d", offset, offset+c.pageSize-1)).
		SetHeader("Prefer", "count=exact").
		SetResult(&rows).
		SetError(apiErr)
	for column, value := range filters {
		req.SetQueryParam(column, "eq."+value)
	}

	resp, err := req.Get("/" + table)
	if err != nil {
		return nil, 0, fmt.Errorf("select %s: %w", table, err)
	}

	if resp.StatusCode() == http.StatusRequestedRangeNotSatisfiable && offset > 0 {
		return nil, -1, nil
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = resp.Status()
		}
		return nil, 0, fmt.Errorf("postgrest error on %s: status=%d, code=%s, message=%s", table, resp.StatusCode(), apiErr.Code, message)
	}

	return rows, contentRangeTotal(resp.Header().Get("Content-Range")), nil
}

// contentRangeTotal reads the total from "0-999/5000" or "*/0". It returns
// -1 when the header is missing or the total is "*".
func contentRangeTotal(header string) int {
	_, total, ok := strings.Cut(header, "/")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(total))
	if err != nil {
		return -1
	}
	return n
}
