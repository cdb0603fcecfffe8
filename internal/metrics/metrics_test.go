package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveStatement(t *testing.T) {
	r := NewRecorder()

	r.ObserveStatement("transform", "insert_users", 1500*time.Millisecond, 42, nil)
	r.ObserveStatement("transform", "insert_time", time.Second, 0, errors.New("boom"))

	require.Equal(t, 1.5, testutil.ToFloat64(r.StatementDuration.WithLabelValues("transform", "insert_users")))
	require.Equal(t, float64(42), testutil.ToFloat64(r.StatementRows.WithLabelValues("transform", "insert_users")))
	require.Equal(t, float64(0), testutil.ToFloat64(r.StatementFailures.WithLabelValues("transform", "insert_users")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.StatementFailures.WithLabelValues("transform", "insert_time")))
}

func TestRecorder_MarkSuccess(t *testing.T) {
	r := NewRecorder()
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	r.MarkSuccess("load", at)

	require.Equal(t, float64(at.Unix()), testutil.ToFloat64(r.LastSuccess.WithLabelValues("load")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveStatement("reset", "drop_users", time.Second, 0, nil)
	r.MarkSuccess("reset", time.Now())
}

func TestRecorder_Push(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		body, _ := io.ReadAll(req.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRecorder()
	r.ObserveStatement("load", "copy_staging_events", time.Second, 8056, nil)

	require.NoError(t, r.Push(context.Background(), srv.URL, "sparkify_dwh"))
	require.Equal(t, "/metrics/job/sparkify_dwh", gotPath)
	require.NotEmpty(t, gotBody)
}

func TestRecorder_PushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewRecorder().Push(context.Background(), srv.URL, "sparkify_dwh")
	require.ErrorContains(t, err, "failed to push metrics")
}
