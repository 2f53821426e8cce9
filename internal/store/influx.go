package store

import (
	"errors"
	"fmt"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"
)

// ErrNoRows is returned when a query yields no rows at all.
var ErrNoRows = errors.New("no rows in measurement")

// Config holds connection settings for the InfluxDB 1.x store.
type Config struct {
	Addr     string
	Database string
	Timeout  time.Duration
}

// Client is a thin wrapper over the InfluxDB 1.x HTTP client exposing
// only the operations this system needs: a latest-row read, database
// creation, and a single-point write.
type Client struct {
	influx   client.Client
	database string
}

// Open creates a Client. The underlying HTTP client enforces the
// configured timeout on every call; no request blocks indefinitely.
func Open(cfg Config) (*Client, error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:    cfg.Addr,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("influx client: %w", err)
	}
	return &Client{influx: c, database: cfg.Database}, nil
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.influx.Close()
}

// QueryLatest returns the single most recent row of the measurement as
// a column-name to value map. Numeric values arrive as json.Number and
// are coerced by the caller. Returns ErrNoRows when the measurement is
// empty.
func (c *Client) QueryLatest(measurement string) (map[string]interface{}, error) {
	q := client.NewQuery(
		fmt.Sprintf(`SELECT * FROM %q ORDER BY time DESC LIMIT 1`, measurement),
		c.database, "")

	resp, err := c.influx.Query(q)
	if err != nil {
		return nil, fmt.Errorf("influx query: %w", err)
	}
	if resp.Error() != nil {
		return nil, fmt.Errorf("influx query: %w", resp.Error())
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Series) == 0 {
		return nil, ErrNoRows
	}
	series := resp.Results[0].Series[0]
	if len(series.Values) == 0 {
		return nil, ErrNoRows
	}

	row := make(map[string]interface{}, len(series.Columns))
	for i, col := range series.Columns {
		if i < len(series.Values[0]) {
			row[col] = series.Values[0][i]
		}
	}
	return row, nil
}

// EnsureDatabase creates the configured database if it does not exist.
// CREATE DATABASE is idempotent in InfluxDB 1.x.
func (c *Client) EnsureDatabase() error {
	q := client.NewQuery(fmt.Sprintf("CREATE DATABASE %q", c.database), "", "")
	resp, err := c.influx.Query(q)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	if resp.Error() != nil {
		return fmt.Errorf("create database: %w", resp.Error())
	}
	return nil
}

// WritePoint writes one point to the measurement. Writing a point with
// an identical measurement, tag set, and timestamp overwrites the
// previous one, which makes per-date ingestion retries idempotent.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}, ts time.Time) error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  c.database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("batch points: %w", err)
	}

	pt, err := client.NewPoint(measurement, tags, fields, ts)
	if err != nil {
		return fmt.Errorf("new point: %w", err)
	}
	bp.AddPoint(pt)

	if err := c.influx.Write(bp); err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	return nil
}
