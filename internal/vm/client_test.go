package vm

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtm0/fcnpost/internal/forecast"
)

var testRecs = []forecast.Record{{
	Timestamp: 1697328000000,
	IC:        1,
	LeadTime:  2,
	Latitude:  45.25,
	Longitude: 270.5,
	Values:    []float64{3.5, -1.25},
}}

var testChannels = []string{"u10", "v10"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEncode_InfluxDB(t *testing.T) {
	c, err := NewClient(discardLogger(), "http://localhost:8428/write", 1, "fcn", testChannels)
	require.NoError(t, err)
	assert.Equal(t, "fcn,ic=1,t=2,la=45.25,lo=270.50 u10=3.5,v10=-1.25 1697328000000\n", c.Encode(testRecs))
}

func TestEncode_CSV(t *testing.T) {
	c, err := NewClient(discardLogger(), "http://localhost:8428/api/v1/import/csv", 1, "fcn", testChannels)
	require.NoError(t, err)
	assert.Equal(t, "1697328000000,1,2,45.25,270.50,3.5,-1.25\n", c.Encode(testRecs))

	u, err := url.Parse(c.insertURL)
	require.NoError(t, err)
	assert.Equal(t, "1:time:unix_ms,2:label:ic,3:label:t,4:label:la,5:label:lo,6:metric:fcn_u10,7:metric:fcn_v10", u.Query().Get("format"))
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient(discardLogger(), "http://localhost:8428/nope", 1, "fcn", testChannels)
	require.Error(t, err)

	_, err = NewClient(discardLogger(), "http://localhost:8428/write", 1, "fcn-out", testChannels)
	require.Error(t, err)

	_, err = NewClient(discardLogger(), "http://localhost:8428/write", 1, "fcn", nil)
	require.Error(t, err)
}

func TestInsert(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := NewClient(discardLogger(), srv.URL+"/write", 1, "fcn", testChannels)
	require.NoError(t, err)
	require.NoError(t, c.Insert(testRecs))
	assert.Contains(t, body, "u10=3.5")
}

func TestInsert_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := NewClient(discardLogger(), srv.URL+"/write", 1, "fcn", testChannels)
	require.NoError(t, err)
	require.Error(t, c.Insert(testRecs))
}
