package googlecloud

import (
	"errors"
	"fmt"
	"testing"

	"cloud.google.com/go/datastore"
	"github.com/stretchr/testify/assert"
)

func TestWrapDatastoreError(t *testing.T) {
	assert.NoError(t, WrapDatastoreError(nil))
	assert.Equal(t, ErrNotFound, WrapDatastoreError(datastore.ErrNoSuchEntity))
	assert.Equal(t, ErrNotFound, WrapDatastoreError(fmt.Errorf("get: %w", datastore.ErrNoSuchEntity)))

	other := errors.New("deadline exceeded")
	assert.Equal(t, other, WrapDatastoreError(other))
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(datastore.ErrNoSuchEntity))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.False(t, IsNotFoundError(ErrInvalidKey))
}
