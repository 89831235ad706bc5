package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/backend/internal/domain"
)

func TestSetAndGet(t *testing.T) {
	c := NewProductCache(time.Minute)
	ctx := context.Background()

	product := &domain.SharedProduct{ID: "p1", Barcode: "123", Name: "Oat Bar"}
	require.NoError(t, c.Set(ctx, "123", product))

	got, err := c.Get(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "Oat Bar", got.Name)
}

func TestGet_Miss(t *testing.T) {
	c := NewProductCache(time.Minute)

	_, err := c.Get(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestGet_Expired(t *testing.T) {
	c := NewProductCache(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "123", &domain.SharedProduct{ID: "p1"}))
	time.Sleep(25 * time.Millisecond)

	_, err := c.Get(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := c.Exists(ctx, "123")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSet_CopiesValue(t *testing.T) {
	c := NewProductCache(time.Minute)
	ctx := context.Background()

	product := &domain.SharedProduct{ID: "p1", Name: "Original"}
	require.NoError(t, c.Set(ctx, "123", product))

	product.Name = "Mutated"

	got, err := c.Get(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Name)
}

func TestSet_NilProduct(t *testing.T) {
	c := NewProductCache(time.Minute)

	err := c.Set(context.Background(), "123", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestDelete(t *testing.T) {
	c := NewProductCache(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "123", &domain.SharedProduct{ID: "p1"}))
	require.NoError(t, c.Delete(ctx, "123"))

	_, err := c.Get(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.Zero(t, c.Size())
}

func TestExists(t *testing.T) {
	c := NewProductCache(time.Minute)
	ctx := context.Background()

	exists, err := c.Exists(ctx, "123")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "123", &domain.SharedProduct{ID: "p1"}))

	exists, err = c.Exists(ctx, "123")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestConcurrentAccess(t *testing.T) {
	c := NewProductCache(time.Minute)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			c.Set(ctx, "123", &domain.SharedProduct{ID: "p1"})
		}
	}()
	for i := 0; i < 200; i++ {
		c.Get(ctx, "123")
		c.Exists(ctx, "123")
	}
	<-done
}
