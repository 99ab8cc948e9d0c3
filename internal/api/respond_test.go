package api

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fictionhub/internal/common"
)

func writeErrorStatus(t *testing.T, err error) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	WriteError(rec, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body["message"]
}

func TestWriteErrorMapping(t *testing.T) {
	code, msg := writeErrorStatus(t, common.ErrNotFound)
	assert.Equal(t, 404, code)
	assert.Equal(t, "Not found", msg)

	code, _ = writeErrorStatus(t, common.ErrAlreadyExists)
	assert.Equal(t, 400, code)

	code, _ = writeErrorStatus(t, common.ErrForbidden)
	assert.Equal(t, 403, code)

	code, msg = writeErrorStatus(t, common.ErrInvalidCredentials)
	assert.Equal(t, 401, code)
	assert.Equal(t, "Invalid credentials", msg)

	code, _ = writeErrorStatus(t, common.ErrUnauthorized)
	assert.Equal(t, 401, code)
}

func TestWriteErrorValidationErrors(t *testing.T) {
	for _, err := range []error{
		common.ErrEmptyContent,
		common.ErrStoryNotEditable,
		common.ErrBadPartOrder,
		common.ErrInvalidInput,
	} {
		code, msg := writeErrorStatus(t, err)
		assert.Equal(t, 400, code)
		assert.Equal(t, err.Error(), msg)
	}
}

func TestWriteErrorWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), common.ErrNotFound)
	code, _ := writeErrorStatus(t, wrapped)
	assert.Equal(t, 404, code)
}

func TestWriteErrorUnknownIs500(t *testing.T) {
	code, msg := writeErrorStatus(t, errors.New("boom"))
	assert.Equal(t, 500, code)
	assert.Equal(t, "Internal server error", msg)
}
