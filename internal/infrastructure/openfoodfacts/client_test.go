package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/backend/internal/domain"
)

const sampleProductJSON = `{
	"status": 1,
	"product": {
		"product_name": "Dark Chocolate 70%",
		"brands": "Cocoa Works",
		"quantity": "100 g",
		"image_url": "https://images.example.org/chocolate.jpg",
		"nutriments": {
			"energy-kcal_100g": 598,
			"proteins_100g": 7.8,
			"fat_100g": 42.6,
			"carbohydrates_100g": 45.9,
			"sugars_100g": 24.0,
			"fiber_100g": 10.9,
			"sodium_100g": 0.02
		}
	}
}`

func TestFetchByBarcode_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/product/3017620422003.json", r.URL.Path)
		assert.Equal(t, "nutrilog/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleProductJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, "nutrilog/1.0", nil)

	product, err := client.FetchByBarcode(context.Background(), "3017620422003")

	require.NoError(t, err)
	assert.Equal(t, "Dark Chocolate 70%", product.Name)
	assert.Equal(t, "Cocoa Works", product.Brand)
	assert.Equal(t, "3017620422003", product.Barcode)
	assert.Equal(t, "100 g", product.PackageSize)
	assert.InDelta(t, 598, product.Nutrition.Calories, 1e-9)
	assert.InDelta(t, 100, product.Nutrition.ServingSize, 1e-9)
	require.NotNil(t, product.Nutrition.Fiber)
	assert.InDelta(t, 10.9, *product.Nutrition.Fiber, 1e-9)
	// Sodium arrives in grams and must convert to milligrams.
	require.NotNil(t, product.Nutrition.Sodium)
	assert.InDelta(t, 20, *product.Nutrition.Sodium, 1e-9)
}

func TestFetchByBarcode_SugarFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": 1,
			"product": {
				"product_name": "Plain Crackers",
				"nutriments": {"energy-kcal_100g": 430, "carbohydrates_100g": 70}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "nutrilog/1.0", nil)

	product, err := client.FetchByBarcode(context.Background(), "4000000000001")

	require.NoError(t, err)
	assert.InDelta(t, 56, product.Nutrition.Sugar, 1e-9) // 70 * 0.8
	assert.Nil(t, product.Nutrition.Fiber)
	assert.Nil(t, product.Nutrition.Sodium)
}

func TestFetchByBarcode_StatusZeroIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "nutrilog/1.0", nil)

	product, err := client.FetchByBarcode(context.Background(), "0000000000000")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFetchByBarcode_Non200IsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "nutrilog/1.0", nil)

	_, err := client.FetchByBarcode(context.Background(), "123")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFetchByBarcode_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 1, "product":`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "nutrilog/1.0", nil)

	_, err := client.FetchByBarcode(context.Background(), "123")

	assert.ErrorIs(t, err, domain.ErrDecodeFailure)
}

func TestFetchByBarcode_EmptyBarcode(t *testing.T) {
	client := NewClient("http://unused.example", "nutrilog/1.0", nil)

	_, err := client.FetchByBarcode(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
