package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("create reservation: %w", SlotUnavailable("slot_unavailable"))

	assert.Equal(t, KindSlotUnavailable, KindOf(err))
	assert.True(t, IsKind(err, KindSlotUnavailable))
	assert.True(t, IsBusiness(err, "slot_unavailable"))
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestStatusFor(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:        http.StatusBadRequest,
		KindInvalidSchedule:   http.StatusUnprocessableEntity,
		KindSlotUnavailable:   http.StatusConflict,
		KindInvalidTransition: http.StatusConflict,
		KindNotAuthorized:     http.StatusForbidden,
		KindNotFound:          http.StatusNotFound,
		Kind(""):              http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, StatusFor(kind), kind)
	}
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ok := Respond(c, Validation("invalid_request", map[string]string{"start_time": "required"}))
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_request", body.Code)
	assert.Equal(t, KindValidation, body.Kind)
	assert.Equal(t, "required", body.Fields["start_time"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	assert.False(t, Respond(c, errors.New("db down")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
