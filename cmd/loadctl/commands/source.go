package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/loadkit/loadstate/internal/logger"
	"github.com/loadkit/loadstate/pkg/loadable/pagination"
)

// record is the wire shape of one entry in the remote source.
type record struct {
	Id        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	UpdatedAt string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ID implements pagination.Identifiable.
func (r record) ID() string { return r.Id }

// recordsResponse is the wire shape of one page response. Total lets the
// client derive whether another page exists.
type recordsResponse struct {
	Records []record `json:"records"`
	Total   int      `json:"total"`
}

// httpSource fetches offset-indexed pages of records from a JSON
// endpoint of the form GET <endpoint>?offset=N&limit=M.
type httpSource struct {
	endpoint string
	client   *http.Client
}

func newHTTPSource(endpoint string, timeout time.Duration) *httpSource {
	return &httpSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// FetchPage retrieves one page. The next-page key is present whenever
// the response indicates more records beyond this page.
func (s *httpSource) FetchPage(ctx context.Context, page pagination.OffsetPage) (pagination.PageSlice[record, pagination.OffsetPage], error) {
	var slice pagination.PageSlice[record, pagination.OffsetPage]

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return slice, fmt.Errorf("invalid source endpoint: %w", err)
	}
	q := u.Query()
	q.Set("offset", strconv.Itoa(page.Offset))
	q.Set("limit", strconv.Itoa(page.Limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return slice, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return slice, fmt.Errorf("fetching page at offset %d: %w", page.Offset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return slice, fmt.Errorf("source returned status %d for offset %d", resp.StatusCode, page.Offset)
	}

	var body recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return slice, fmt.Errorf("decoding page at offset %d: %w", page.Offset, err)
	}

	logger.Debug("page fetched",
		logger.Endpoint(s.endpoint),
		logger.Page(strconv.Itoa(page.Offset)),
		logger.Records(len(body.Records)),
		logger.Status(resp.StatusCode),
		logger.DurationMs(time.Since(start)))

	slice.Values = body.Records
	slice.Page = page
	if next := page.Offset + len(body.Records); next < body.Total && len(body.Records) > 0 {
		slice.NextPage = &pagination.OffsetPage{Limit: page.Limit, Offset: next}
	}
	return slice, nil
}
