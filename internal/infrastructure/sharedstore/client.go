package sharedstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nutrilog/backend/internal/domain"
)

// Result caps matching the store-side query limits.
const (
	barcodeSearchLimit = 1
	nameSearchLimit    = 20
)

// Client talks to the crowd-sourced shared-products document store. All
// mutating calls authenticate with an anonymous session that is established
// once and reused for the lifetime of the client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logrus.Logger

	mu      sync.Mutex
	session *session
}

type session struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// NewClient creates a shared store client for the given base URL.
func NewClient(baseURL string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		log:        log,
	}
}

// EnsureSession authenticates anonymously against the store and returns the
// session user id. Idempotent: an already-established session is reused.
func (c *Client) EnsureSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session.UserID, nil
	}

	reqURL := fmt.Sprintf("%s/v1/auth/anonymous", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrAuthenticationFailed, resp.StatusCode)
	}

	var s session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	c.session = &s

	c.log.WithFields(logrus.Fields{
		"component": "store",
		"userId":    s.UserID,
	}).Debug("anonymous session established")
	return s.UserID, nil
}

type productListResponse struct {
	Products []domain.SharedProduct `json:"products"`
}

// SearchByBarcode returns the single best match for an exact barcode, ordered
// by verification count descending, or ErrProductNotFound.
func (c *Client) SearchByBarcode(ctx context.Context, barcode string) (*domain.SharedProduct, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	params := url.Values{}
	params.Set("barcode", barcode)
	params.Set("orderBy", "verificationCount")
	params.Set("limit", strconv.Itoa(barcodeSearchLimit))

	products, err := c.listProducts(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return &products[0], nil
}

// SearchByName runs a prefix-range query over product names, ordered by
// verification count descending and capped at 20 results.
func (c *Client) SearchByName(ctx context.Context, prefix string) ([]domain.SharedProduct, error) {
	if prefix == "" {
		return nil, domain.ErrInvalidRequest
	}

	params := url.Values{}
	params.Set("namePrefix", prefix)
	params.Set("orderBy", "verificationCount")
	params.Set("limit", strconv.Itoa(nameSearchLimit))

	return c.listProducts(ctx, params)
}

// ExistsByBarcode is a cheap existence probe used before auto-contribution.
// A store that answers the query with 404 means the barcode is absent, not
// that the probe failed.
func (c *Client) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	params := url.Values{}
	params.Set("barcode", barcode)
	params.Set("limit", "1")

	products, err := c.listProducts(ctx, params)
	if errors.Is(err, domain.ErrProductNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(products) > 0, nil
}

// Create submits a new product document. A missing id is filled with a fresh
// UUID and the contributor is set from the current session.
func (c *Client) Create(ctx context.Context, product *domain.SharedProduct) error {
	userID, err := c.EnsureSession(ctx)
	if err != nil {
		return err
	}

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.ContributorID == "" {
		product.ContributorID = userID
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	body, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	reqURL := fmt.Sprintf("%s/v1/products", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		c.log.WithFields(logrus.Fields{
			"component": "store",
			"productId": product.ID,
			"barcode":   product.Barcode,
		}).Info("product submitted")
		return nil
	case http.StatusUnauthorized:
		return domain.ErrAuthenticationFailed
	default:
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", domain.ErrNetworkFailure, resp.StatusCode, msg)
	}
}

// AddAction appends a verify/report action for the current session user and
// atomically bumps the matching counter. The store enforces one action per
// (product, user, type); a duplicate maps to ErrAlreadyActioned.
func (c *Client) AddAction(ctx context.Context, productID, actionType string) error {
	if productID == "" || (actionType != domain.ActionVerify && actionType != domain.ActionReport) {
		return domain.ErrInvalidRequest
	}

	if _, err := c.EnsureSession(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"actionType": actionType})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	reqURL := fmt.Sprintf("%s/v1/products/%s/actions", c.baseURL, url.PathEscape(productID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusConflict:
		return domain.ErrAlreadyActioned
	case http.StatusNotFound:
		return domain.ErrProductNotFound
	case http.StatusUnauthorized:
		return domain.ErrAuthenticationFailed
	default:
		return fmt.Errorf("%w: status %d", domain.ErrNetworkFailure, resp.StatusCode)
	}
}

func (c *Client) listProducts(ctx context.Context, params url.Values) ([]domain.SharedProduct, error) {
	reqURL := fmt.Sprintf("%s/v1/products?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrNetworkFailure, resp.StatusCode)
	}

	var list productListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	return list.Products, nil
}

func (c *Client) authorize(req *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
}
