package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stepsciences/scanportal/internal/company/domain"
)

// ProxyClient reads the same tenant table through the companion HTTP
// endpoint. Used only as the fallback path when the direct store query
// fails; it never serves writes.
type ProxyClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewProxyClient(baseURL string) *ProxyClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &ProxyClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *ProxyClient) FetchByID(ctx context.Context, id string) (*domain.Company, error) {
	var company domain.Company
	if err := c.getJSON(ctx, "/api/companies/"+url.PathEscape(id)+"?shape=storage", &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *ProxyClient) FetchByDomain(ctx context.Context, host string) (*domain.Company, error) {
	var company domain.Company
	if err := c.getJSON(ctx, "/api/config/"+url.PathEscape(host)+"?shape=storage", &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *ProxyClient) FetchAllActive(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	if err := c.getJSON(ctx, "/api/companies?shape=storage", &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (c *ProxyClient) getJSON(ctx context.Context, path string, out any) error {
	if c == nil || c.httpClient == nil {
		return domain.ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create proxy request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("proxy fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode proxy response: %w", err)
	}
	return nil
}
