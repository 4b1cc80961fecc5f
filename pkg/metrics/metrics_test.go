package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzjyyds666/qent/parse/qent"
)

func TestObserve(t *testing.T) {
	c := NewCollector("test", prometheus.NewRegistry())

	ents, err := qent.ParseString(`{ "classname" "worldspawn" } { "classname" "light" }`, qent.NewOptions())
	require.NoError(t, err)
	c.Observe(52, time.Millisecond, ents, nil)

	_, perr := qent.ParseString(`{ "classname" }`, qent.NewOptions())
	require.Error(t, perr)
	c.Observe(15, time.Millisecond, nil, perr)

	c.Observe(0, 0, nil, errors.New("read failed"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.parses.WithLabelValues(ResultSuccess, "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.parses.WithLabelValues(ResultError, qent.DanglingKey.String())))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.parses.WithLabelValues(ResultError, "other")))
	assert.Equal(t, 67.0, testutil.ToFloat64(c.inputBytes))
	assert.Equal(t, 1, testutil.CollectAndCount(c.entities))
}

func TestNilRegistry(t *testing.T) {
	c := NewCollector("", nil)
	require.NotNil(t, c.Registry())
	c.Observe(1, 0, nil, errors.New("x"))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inputBytes))
}

func TestHandler(t *testing.T) {
	c := NewCollector("qent", nil)
	ents, err := qent.ParseString(`{}`, qent.NewOptions())
	require.NoError(t, err)
	c.Observe(2, time.Microsecond, ents, nil)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `qent_parses_total{kind="",result="success"} 1`)
	assert.Contains(t, string(body), "qent_input_bytes_total 2")
	assert.Contains(t, string(body), "qent_parse_duration_seconds_bucket")
}
