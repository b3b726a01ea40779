package publish

import (
	"crypto/tls"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/resty.v1"
)

// ErrAuth is returned when the registry rejects the API key.
var ErrAuth = errors.New("authentication")

// Client talks to the sample registry REST API.
type Client struct {
	APIKey  string
	BaseURL string

	rc *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		rc:      resty.New(),
	}
}

// SkipTLSVerify turns off certificate checks, for registries running with a
// self signed certificate.
func (c *Client) SkipTLSVerify() *Client {
	c.rc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	return c
}

func (c *Client) r() *resty.Request {
	return c.rc.R().SetQueryParam("apikey", c.APIKey)
}

func (c *Client) join(paths ...string) string {
	return c.BaseURL + "/" + strings.Join(paths, "/")
}

func (c *Client) post(result, body interface{}, paths ...string) error {
	p := c.join(paths...)
	resp, err := c.r().SetResult(result).SetBody(body).Post(p)
	return c.getAPIError(p, resp, err)
}

func (c *Client) getAPIError(p string, resp *resty.Response, err error) error {
	switch {
	case err != nil:
		return err
	case resp.StatusCode() == 401:
		return ErrAuth
	case resp.StatusCode() > 299:
		return c.toErrorFromResponse(p, resp)
	default:
		return nil
	}
}

func (c *Client) toErrorFromResponse(p string, resp *resty.Response) error {
	var er struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(resp.Body(), &er); err != nil {
		return errors.Errorf("registry '%s' (HTTP Status: %d)- unable to parse json error response: %s", p, resp.StatusCode(), err)
	}

	return errors.Errorf("registry '%s' (HTTP Status: %d)- %s", p, resp.StatusCode(), er.Error)
}
