package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func newTestClient() *Client {
	return NewClient(Config{URL: "https://example.test/outages.html", MaxRetries: 0, TimeoutSeconds: 2})
}

func TestFetchPage(t *testing.T) {
	c := newTestClient()
	httpmock.ActivateNonDefault(c.HTTPClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", c.URL(),
		httpmock.NewStringResponder(200, "<html><body><p>6.2 черга</p></body></html>"))

	body, err := c.FetchPage(context.Background())
	if assert.NoError(t, err) {
		assert.Contains(t, body, "6.2 черга")
	}
}

func TestFetchPageHTTPError(t *testing.T) {
	c := newTestClient()
	httpmock.ActivateNonDefault(c.HTTPClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", c.URL(), httpmock.NewStringResponder(404, "not found"))

	_, err := c.FetchPage(context.Background())
	var fe *Error
	if assert.Error(t, err) {
		assert.True(t, errors.As(err, &fe))
	}
}

func TestFetchPageNetworkError(t *testing.T) {
	c := newTestClient()
	httpmock.ActivateNonDefault(c.HTTPClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", c.URL(), httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := c.FetchPage(context.Background())
	var fe *Error
	if assert.Error(t, err) {
		assert.True(t, errors.As(err, &fe))
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
}
