package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/scheduling-api/pkg/errors"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithError(c, err)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestRespondWithErrorUnwrapsNestedAppError(t *testing.T) {
	wrapped := fmt.Errorf("calling backend: %w", errors.Unauthorized(nil))
	w, resp := respond(t, wrapped)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, errors.ErrUnauthorized, resp.Error.Code)
}

func TestRespondWithErrorKeepsReasonThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("confirm: %w", errors.NewPaymentCancelled(errors.ReasonSignatureMismatch))
	w, resp := respond(t, wrapped)

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, errors.ReasonSignatureMismatch, resp.Error.Reason)
}

func TestRespondWithErrorPlainErrorIsInternal(t *testing.T) {
	w, resp := respond(t, fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, errors.ErrInternal, resp.Error.Code)
}
