package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"rollcall-hq/rollcall/pkg/config"
)

// SpreadsheetClient appends rows to a named sheet within a spreadsheet.
type SpreadsheetClient interface {
	AppendRows(ctx context.Context, spreadsheetID, sheetName string, rows [][]string) error
}

// HTTPClient implements SpreadsheetClient against a REST append endpoint:
// POST {base}/spreadsheets/{id}/sheets/{name}:append with a JSON row body.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates an HTTPClient from the sheets configuration.
func NewHTTPClient(cfg config.SheetsConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type appendRequest struct {
	Rows [][]string `json:"rows"`
}

// AppendRows posts the rows to the append endpoint.
func (c *HTTPClient) AppendRows(ctx context.Context, spreadsheetID, sheetName string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	payload, err := json.Marshal(appendRequest{Rows: rows})
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}

	endpoint := fmt.Sprintf("%s/spreadsheets/%s/sheets/%s:append",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(sheetName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build append request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("append rows: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
