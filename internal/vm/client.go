package vm

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rtm0/fcnpost/internal/forecast"
)

// Client is a Victoria Metrics client capable of inserting forecast records
// via various protocols.
type Client struct {
	logger       *slog.Logger
	httpCli      *http.Client
	insertURL    string
	metricPrefix string
	channels     []string
	recToText    recToTextFunc
}

const metricPrefixRE = "^[a-zA-Z0-9]+$"

// NewClient creates a new VM client. channels names the values of every
// record in order.
func NewClient(logger *slog.Logger, insertURL string, maxConns int, metricPrefix string, channels []string) (*Client, error) {
	url, err := url.Parse(insertURL)
	if err != nil {
		return nil, err
	}

	matches, err := regexp.Match(metricPrefixRE, []byte(metricPrefix))
	if err != nil {
		return nil, err
	}
	if !matches {
		return nil, errors.Errorf("metric prefix %q does not match %q regular expression", metricPrefix, metricPrefixRE)
	}
	if len(channels) == 0 {
		return nil, errors.New("no channels to insert")
	}

	apiParams := apiParamsFuncs[url.Path]
	if apiParams == nil {
		return nil, errors.Errorf("inserting into %q is not supported", insertURL)
	}
	q := url.Query()
	for name, value := range apiParams(metricPrefix, channels) {
		q.Add(name, value)
	}
	url.RawQuery = q.Encode()

	recToText := recToTextFuncs[url.Path]
	if recToText == nil {
		return nil, errors.Errorf("inserting into %q is not supported", insertURL)
	}

	return &Client{
		logger: logger,
		httpCli: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        maxConns,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: maxConns,
				MaxConnsPerHost:     maxConns,
			},
		},
		insertURL:    url.String(),
		metricPrefix: metricPrefix,
		channels:     channels,
		recToText:    recToText,
	}, nil
}

// Insert inserts forecast records into Victoria Metrics.
func (c *Client) Insert(recs []forecast.Record) error {
	res, err := c.httpCli.Post(c.insertURL, "text/plain", strings.NewReader(c.Encode(recs)))
	if err != nil {
		c.logger.Error("Could not post data", "err", err)
		return err
	}
	defer res.Body.Close()
	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		c.logger.Error("Failed to drain response body", "err", err)
	}
	if res.StatusCode != http.StatusNoContent {
		c.logger.Error("Unexpected status", "code", res.StatusCode)
		return errors.Errorf("unexpected status %d", res.StatusCode)
	}
	return nil
}

// Encode converts records to the text format of the client's insert API.
func (c *Client) Encode(recs []forecast.Record) string {
	var sb strings.Builder
	for i := range recs {
		c.recToText(&sb, &recs[i], c.metricPrefix, c.channels)
		sb.WriteString("\n")
	}
	return sb.String()
}

type apiParamsFunc func(string, []string) map[string]string

var apiParamsFuncs = map[string]apiParamsFunc{
	"/influx/write":        influxDBAPIParams,
	"/influx/api/v2/write": influxDBAPIParams,
	"/write":               influxDBAPIParams,
	"/api/v2/write":        influxDBAPIParams,
	"/api/v1/import/csv":   csvAPIParams,
}

func influxDBAPIParams(string, []string) map[string]string {
	return nil
}

// csvAPIParams describes the columns written by recToCSV.
func csvAPIParams(metricPrefix string, channels []string) map[string]string {
	cols := []string{
		"1:time:unix_ms",
		"2:label:ic",
		"3:label:t",
		"4:label:la",
		"5:label:lo",
	}
	for i, ch := range channels {
		cols = append(cols, fmt.Sprintf("%d:metric:%s_%s", i+6, metricPrefix, ch))
	}
	return map[string]string{"format": strings.Join(cols, ",")}
}

type recToTextFunc func(*strings.Builder, *forecast.Record, string, []string)

var recToTextFuncs = map[string]recToTextFunc{
	"/influx/write":        recToInfluxDB,
	"/influx/api/v2/write": recToInfluxDB,
	"/write":               recToInfluxDB,
	"/api/v2/write":        recToInfluxDB,
	"/api/v1/import/csv":   recToCSV,
}

// recToInfluxDB converts a forecast record into InfluxDB line protocol v2 and
// appends it to the string builder.
func recToInfluxDB(sb *strings.Builder, r *forecast.Record, metricPrefix string, channels []string) {
	fmt.Fprintf(sb, "%s,ic=%d,t=%d,la=%.2f,lo=%.2f ", metricPrefix, r.IC, r.LeadTime, r.Latitude, r.Longitude)
	for i, v := range r.Values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(channels[i])
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	fmt.Fprintf(sb, " %d", r.Timestamp)
}

// recToCSV converts a forecast record into a CSV record and appends it to
// the string builder.
func recToCSV(sb *strings.Builder, r *forecast.Record, _ string, _ []string) {
	fmt.Fprintf(sb, "%d,%d,%d,%.2f,%.2f", r.Timestamp, r.IC, r.LeadTime, r.Latitude, r.Longitude)
	for _, v := range r.Values {
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
}
