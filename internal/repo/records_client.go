package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/healthsignals/insights-engine/internal/cache"
	"github.com/healthsignals/insights-engine/internal/models"
)

// RecordsClient fetches daily survey records from the records service. Raw
// windows are cached per patient so repeated report runs over the same window
// do not hammer the upstream.
type RecordsClient struct {
	baseURL     string
	recordsPath string
	httpClient  *http.Client
	logger      *slog.Logger
	cache       cache.Provider
	recordsTTL  time.Duration
}

// NewRecordsClient constructs a client targeting the configured records service.
func NewRecordsClient(baseURL, recordsPath string, timeout time.Duration, logger *slog.Logger, cacheProvider cache.Provider, recordsTTL time.Duration) *RecordsClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if recordsTTL < 0 {
		recordsTTL = 0
	}
	return &RecordsClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		recordsPath: recordsPath,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
		cache:       cacheProvider,
		recordsTTL:  recordsTTL,
	}
}

// FetchRecords queries the records service for one patient's daily records in
// the [from, to] window. Records whose envelope does not decode are dropped
// with a warning rather than failing the whole fetch.
func (c *RecordsClient) FetchRecords(ctx context.Context, patientID, from, to string) ([]models.DailyRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("records client not initialised")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("records base URL not configured")
	}

	cacheKey := recordsCacheKey(patientID, from, to)
	if data, err := c.cache.Get(ctx, cacheKey); err == nil {
		var cached []models.DailyRecord
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			return cached, nil
		}
		_ = c.cache.Del(ctx, cacheKey)
	}

	payload := map[string]any{
		"patient_id": patientID,
		"from":       from,
		"to":         to,
	}

	var response struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := c.postJSON(ctx, c.recordsURL(), payload, &response); err != nil {
		return nil, fmt.Errorf("records request failed: %w", err)
	}

	records := make([]models.DailyRecord, 0, len(response.Records))
	for i, raw := range response.Records {
		var record models.DailyRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			c.logger.Warn("dropping undecodable record",
				slog.String("patient_id", patientID),
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		records = append(records, record)
	}

	if c.recordsTTL > 0 {
		if data, err := json.Marshal(records); err == nil {
			if err := c.cache.Set(ctx, cacheKey, data, c.recordsTTL); err != nil {
				c.logger.Debug("records cache write failed", slog.String("error", err.Error()))
			}
		}
	}
	return records, nil
}

func recordsCacheKey(patientID, from, to string) string {
	return fmt.Sprintf("records:%s:%s:%s", patientID, from, to)
}

func (c *RecordsClient) recordsURL() string { return c.resolvePath(c.recordsPath) }

func (c *RecordsClient) resolvePath(p string) string {
	if c.baseURL == "" {
		return ""
	}
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (c *RecordsClient) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("records service returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
