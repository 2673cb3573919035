// Package httpapi provides a stockapi.Client implementation backed by the
// stock REST API over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"stockscan/pkg/domain"
	"stockscan/pkg/serrors"
	"stockscan/pkg/stockapi"
	"strings"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "stockscan/pkg/stockapi/httpapi"

// Client talks to the stock REST API and fulfills the stockapi.Client
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	tracer     trace.Tracer
}

// New constructs a Client sending requests to baseURL (e.g. http://localhost:5000)
// with the provided http.Client.
func New(httpClient *http.Client, baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base URL %q must be absolute", baseURL)
	}

	return &Client{httpClient: httpClient, baseURL: u, tracer: otel.Tracer(tracerName)}, nil
}

// endpoint resolves the API path built from segments against the base URL.
// Segments are escaped individually so barcodes and category names containing
// '/' or '>' stay within one path element.
func (c *Client) endpoint(query url.Values, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	prefix := strings.TrimRight(c.baseURL.Path, "/") + "/api/"

	u := *c.baseURL
	u.Path = prefix + strings.Join(segments, "/")
	u.RawPath = prefix + strings.Join(escaped, "/")
	u.RawQuery = query.Encode()

	return u.String()
}

// do sends a request and returns the body of a 2xx response. Non-2xx answers
// are converted into semantic errors carrying the server's message.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (_ []byte, err error) {
	ctx, span := c.tracer.Start(ctx, "stockapi "+method, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.request.method", method), attribute.String("url.full", endpoint)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not reach stock API")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return b, nil
	}

	msg := errorMessage(b)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, serrors.With(serrors.ErrNotFound, "%s", msg)
	case http.StatusBadRequest:
		return nil, serrors.With(serrors.ErrBadRequest, "%s", msg)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, serrors.With(serrors.ErrUnavailable, "%s", msg)
	default:
		return nil, fmt.Errorf("%s %s failed with status %d: %s", method, req.URL.Path, resp.StatusCode, msg)
	}
}

// LookupBarcode calls GET /api/barcodescan?barcode={code}.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	b, err := c.do(ctx, http.MethodGet, c.endpoint(url.Values{"barcode": {barcode}}, "barcodescan"), nil)
	if err != nil {
		return nil, err
	}

	p, err := decodeProduct(b)
	if err != nil {
		return nil, errors.Wrap(err, "decode barcode lookup")
	}

	return p, nil
}

// ScannedProductsInfo calls POST /api/scanned_products_info.
func (c *Client) ScannedProductsInfo(ctx context.Context,
	barcodes []string,
	history []domain.ScanEntry) ([]domain.StockRecord, error) {
	type infoReq struct {
		Barcodes    []string           `json:"barcodes"`
		ScanHistory []domain.ScanEntry `json:"scanHistory"`
	}
	if history == nil {
		history = []domain.ScanEntry{}
	}

	b, err := c.do(ctx, http.MethodPost, c.endpoint(nil, "scanned_products_info"), infoReq{
		Barcodes:    barcodes,
		ScanHistory: history,
	})
	if err != nil {
		return nil, err
	}

	records, err := decodeStockRecords(b)
	if err != nil {
		return nil, errors.Wrap(err, "decode scanned products info")
	}

	return records, nil
}

// UpdateQuantities calls POST /api/quantity_update.
func (c *Client) UpdateQuantities(ctx context.Context, products []domain.AggregatedProduct) error {
	if len(products) == 0 {
		return serrors.With(serrors.ErrBadRequest, "no products to update")
	}

	type updateReq struct {
		Products []domain.AggregatedProduct `json:"products"`
	}
	if _, err := c.do(ctx, http.MethodPost, c.endpoint(nil, "quantity_update"), updateReq{Products: products}); err != nil {
		return err
	}

	return nil
}

// Categories calls GET /api/categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	b, err := c.do(ctx, http.MethodGet, c.endpoint(nil, "categories"), nil)
	if err != nil {
		return nil, err
	}

	categories, err := decodeCategories(b)
	if err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}

	return categories, nil
}

// CategoryInfo calls GET /api/category_info/{category}.
func (c *Client) CategoryInfo(ctx context.Context, category string) (*domain.CategoryInfo, error) {
	b, err := c.do(ctx, http.MethodGet, c.endpoint(nil, "category_info", category), nil)
	if err != nil {
		return nil, err
	}

	info, err := decodeCategoryInfo(b)
	if err != nil {
		return nil, errors.Wrap(err, "decode category info")
	}

	return info, nil
}

// ItemInfo calls GET /api/item_info/{barcode}.
func (c *Client) ItemInfo(ctx context.Context, barcode string) (*domain.StockItem, error) {
	b, err := c.do(ctx, http.MethodGet, c.endpoint(nil, "item_info", barcode), nil)
	if err != nil {
		return nil, err
	}

	item, err := decodeStockItem(b)
	if err != nil {
		return nil, errors.Wrap(err, "decode item info")
	}

	return item, nil
}

// UpdateStockItem calls PUT /api/stock/update/{barcode}.
func (c *Client) UpdateStockItem(ctx context.Context, barcode string, item domain.StockItem) error {
	if _, err := c.do(ctx, http.MethodPut, c.endpoint(nil, "stock", "update", barcode), item); err != nil {
		return err
	}

	return nil
}

// Ensure Client conforms to the stockapi.Client interface at compile time.
var _ stockapi.Client = (*Client)(nil)
