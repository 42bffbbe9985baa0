package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hunterapp/hunterd/internal/errlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLogReportsServerErrors(t *testing.T) {
	sink := errlog.NewRing(15)

	handler := AccessLog(sink)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodPost, "/learning/ingest", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := sink.Recent()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "POST /learning/ingest -> 500")
}

func TestAccessLogIgnoresClientErrors(t *testing.T) {
	sink := errlog.NewRing(15)

	handler := AccessLog(sink)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dictionary", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, sink.Recent())
}

func TestAccessLogDefaultsImplicitOK(t *testing.T) {
	sink := errlog.NewRing(15)

	handler := AccessLog(sink)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sink.Recent())
}
