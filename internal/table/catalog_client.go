package table

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ProductTable/internal/product"
)

const maxListBody = 8 << 20

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrCatalogBadStatus   = errors.New("catalog bad status")
	ErrCatalogBadPayload  = errors.New("catalog bad payload")
)

// Source supplies the full product list in one call.
type Source interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
}

type CatalogClient struct {
	BaseURL string
	Client  *http.Client

	// MaxBody caps the response size in bytes.
	MaxBody int64
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &CatalogClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		MaxBody: maxListBody,
	}
}

func (c *CatalogClient) ListProducts(ctx context.Context) ([]product.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/products", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrCatalogBadStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.MaxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if int64(len(raw)) > c.MaxBody {
		return nil, fmt.Errorf("%w: response larger than %d bytes", ErrCatalogBadPayload, c.MaxBody)
	}

	var ps []product.Product
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&ps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogBadPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after product list", ErrCatalogBadPayload)
	}

	if err := product.ValidateList(ps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogBadPayload, err)
	}

	if ps == nil {
		ps = []product.Product{}
	}
	return ps, nil
}
