package shared

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age" validate:"gte=0"`
}

type selfValidating struct {
	err error
}

func (s selfValidating) Validate() error { return s.err }

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes known fields", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Alice","age":30}`))

		var target decodeTarget
		require.NoError(t, DecodeJSON(req, &target))
		assert.Equal(t, "Alice", target.Name)
		assert.Equal(t, 30, target.Age)
	})

	t.Run("ignores unknown fields", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Alice","extra":true}`))

		var target decodeTarget
		require.NoError(t, DecodeJSON(req, &target))
		assert.Equal(t, "Alice", target.Name)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

		var target decodeTarget
		assert.Error(t, DecodeJSON(req, &target))
	})
}

func TestDecodeJSONStrict(t *testing.T) {
	t.Parallel()

	t.Run("decodes known fields", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("PATCH", "/", strings.NewReader(`{"name":"Alice"}`))

		var target decodeTarget
		require.NoError(t, DecodeJSONStrict(req, &target))
		assert.Equal(t, "Alice", target.Name)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("PATCH", "/", strings.NewReader(`{"name":"Alice","_id":"abc"}`))

		var target decodeTarget
		err := DecodeJSONStrict(req, &target)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown field")
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("uses struct tags", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateRequest(decodeTarget{Name: "Alice"}))
		assert.Error(t, ValidateRequest(decodeTarget{}))
		assert.Error(t, ValidateRequest(decodeTarget{Name: "Alice", Age: -1}))
	})

	t.Run("prefers a Validate method when present", func(t *testing.T) {
		t.Parallel()
		sentinel := errors.New("custom validation failed")
		assert.NoError(t, ValidateRequest(selfValidating{}))
		assert.ErrorIs(t, ValidateRequest(selfValidating{err: sentinel}), sentinel)
	})
}
