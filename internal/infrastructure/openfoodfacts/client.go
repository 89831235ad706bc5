package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/nutrilog/backend/internal/domain"
)

// Client talks to the Open Food Facts product API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	log         *logrus.Logger
}

// NewClient creates a new Open Food Facts client. The public API allows
// 100 product requests per minute, so the limiter runs at 100/60 req/sec
// with a small burst.
func NewClient(baseURL, userAgent string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(100.0/60.0), 5),
		log:         log,
	}
}

// productResponse mirrors the v0 product endpoint envelope. Status 1 means
// found; anything else means the barcode is unknown.
type productResponse struct {
	Status  int          `json:"status"`
	Product *productBody `json:"product"`
}

type productBody struct {
	ProductName string     `json:"product_name"`
	Brands      string     `json:"brands"`
	Quantity    string     `json:"quantity"`
	ImageURL    string     `json:"image_url"`
	Nutriments  nutriments `json:"nutriments"`
}

type nutriments struct {
	EnergyKcal100g *float64 `json:"energy-kcal_100g"`
	Proteins100g   *float64 `json:"proteins_100g"`
	Fat100g        *float64 `json:"fat_100g"`
	Carbs100g      *float64 `json:"carbohydrates_100g"`
	Sugars100g     *float64 `json:"sugars_100g"`
	Fiber100g      *float64 `json:"fiber_100g"`
	Sodium100g     *float64 `json:"sodium_100g"` // grams; converted to mg by the mapper
}

// FetchByBarcode resolves a barcode against the open-data API. A non-200
// status or a status-0 envelope is treated as not-found rather than an error;
// a malformed body surfaces as a decode failure so the caller can tell the
// difference between "unknown barcode" and "broken response".
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*domain.SharedProduct, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(logrus.Fields{
			"component": "off",
			"barcode":   barcode,
			"status":    resp.StatusCode,
		}).Info("barcode not found upstream")
		return nil, domain.ErrProductNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}

	var pr productResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	if pr.Status != 1 || pr.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	product := mapProduct(barcode, pr.Product)
	c.log.WithFields(logrus.Fields{
		"component": "off",
		"barcode":   barcode,
		"name":      product.Name,
	}).Debug("resolved barcode")
	return product, nil
}
