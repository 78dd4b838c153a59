package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quimicadatos/cuadro-search/internal/search"
)

func TestJSONResponse_EncodeFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewServer(search.NewEngine(nil), nil, nil, logrus.NewEntry(logger))

	w := httptest.NewRecorder()
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "Failed to encode response", hook.LastEntry().Message)
}

func TestJSONResponse(t *testing.T) {
	s := NewServer(search.NewEngine(nil), nil, nil, nil)

	w := httptest.NewRecorder()
	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
