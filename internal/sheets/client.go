package sheets

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spacemetall/salesboard/internal/cache"
	"github.com/spacemetall/salesboard/internal/config"
	prommetrics "github.com/spacemetall/salesboard/internal/metrics"
	"github.com/spacemetall/salesboard/internal/models"
	"github.com/spacemetall/salesboard/pkg/logger"
)

// Cache keys for the parsed feed snapshots.
const (
	connectionsCacheKey = "feed:connections"
	invoicesCacheKey    = "feed:invoices"

	feedConnections = "connections"
	feedInvoices    = "invoices"
)

// Client fetches the two feeds as published CSV and caches the parsed rows.
type Client struct {
	httpClient *http.Client
	cfg        *config.SheetsConfig
	cache      cache.Cache
	log        *logger.Logger
}

// NewClient creates a new feed client.
func NewClient(cfg *config.SheetsConfig, c cache.Cache, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeoutDuration()},
		cfg:        cfg,
		cache:      c,
		log:        log,
	}
}

// FetchConnections returns the parsed connections feed, from cache when fresh.
func (c *Client) FetchConnections(ctx context.Context) ([]models.ConnectionRow, error) {
	var rows []models.ConnectionRow
	if c.fromCache(ctx, connectionsCacheKey, feedConnections, &rows) {
		return rows, nil
	}

	records, err := c.fetchCSV(ctx, feedConnections, c.cfg.ConnectionsCSVURL)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := resolveColumns(records[0], connectionsColumns)
	rows = make([]models.ConnectionRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, parseConnectionRow(record, cols))
	}

	prommetrics.SetFeedRowsRead(feedConnections, len(rows))
	c.toCache(ctx, connectionsCacheKey, rows)
	return rows, nil
}

// FetchInvoices returns the parsed sales-funnel feed, from cache when fresh.
func (c *Client) FetchInvoices(ctx context.Context) ([]models.InvoiceRow, error) {
	var rows []models.InvoiceRow
	if c.fromCache(ctx, invoicesCacheKey, feedInvoices, &rows) {
		return rows, nil
	}

	records, err := c.fetchCSV(ctx, feedInvoices, c.cfg.SalesFunnelCSVURL)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := resolveColumns(records[0], salesFunnelColumns)
	rows = make([]models.InvoiceRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, parseInvoiceRow(record, cols))
	}

	prommetrics.SetFeedRowsRead(feedInvoices, len(rows))
	c.toCache(ctx, invoicesCacheKey, rows)
	return rows, nil
}

// Invalidate drops the cached feed snapshots so the next read refetches.
func (c *Client) Invalidate(ctx context.Context) error {
	return c.cache.Invalidate(ctx, connectionsCacheKey, invoicesCacheKey)
}

// fetchCSV downloads and parses one CSV export.
func (c *Client) fetchCSV(ctx context.Context, feed, url string) ([][]string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		prommetrics.RecordFeedFetch(feed, "error")
		return nil, fmt.Errorf("failed to build %s feed request: %w", feed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		prommetrics.RecordFeedFetch(feed, "error")
		return nil, fmt.Errorf("failed to fetch %s feed: %w", feed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		prommetrics.RecordFeedFetch(feed, "error")
		return nil, fmt.Errorf("%s feed returned status %d", feed, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	// Exports are ragged: rows end at their last non-empty cell.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			prommetrics.RecordFeedFetch(feed, "error")
			return nil, fmt.Errorf("failed to parse %s feed CSV: %w", feed, err)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		records = append(records, record)
	}

	prommetrics.RecordFeedFetch(feed, "success")
	prommetrics.ObserveFeedFetchDuration(feed, time.Since(start).Seconds())

	c.log.Debug().
		Str("feed", feed).
		Int("rows", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Fetched feed CSV")

	return records, nil
}

// fromCache loads a parsed snapshot if present. Cache failures only log; the
// fetch path still works without Redis.
func (c *Client) fromCache(ctx context.Context, key, feed string, out interface{}) bool {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("feed", feed).Msg("Feed cache read failed")
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.log.Warn().Err(err).Str("feed", feed).Msg("Feed cache entry is corrupt")
		return false
	}
	prommetrics.RecordFeedCacheHit(feed)
	return true
}

func (c *Client) toCache(ctx context.Context, key string, rows interface{}) {
	raw, err := json.Marshal(rows)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to marshal feed snapshot")
		return
	}
	if err := c.cache.Set(ctx, key, string(raw), c.cfg.CacheTTLDuration()); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Feed cache write failed")
	}
}
