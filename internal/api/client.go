// Package api talks to the remote todo service.
// Every call is single shot: no retries, no timeout besides the transport's own,
// and no coordination between concurrent calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Makepad-fr/tada/internal/model"
)

// Client handles communication with the todo service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

type Option func(*Client)

// WithHTTPClient swaps the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(baseURL string, opts ...Option) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        discard,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL is the service root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, "list", MsgList, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (c *Client) Create(ctx context.Context, in model.TodoInput) (model.Todo, error) {
	var created model.Todo
	err := c.do(ctx, "create", MsgCreate, http.MethodPost, "/todos", in, &created)
	return created, err
}

func (c *Client) Update(ctx context.Context, id int, in model.TodoInput) (model.Todo, error) {
	var updated model.Todo
	err := c.do(ctx, "update", MsgUpdate, http.MethodPut, fmt.Sprintf("/todos/%d", id), in, &updated)
	return updated, err
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete", MsgDelete, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, nil)
}

// do sends one request. body is JSON-encoded when non-nil; out is decoded from
// a 2xx response when non-nil. Any failure becomes a *RequestError carrying msg.
func (c *Client) do(ctx context.Context, op, msg, method, path string, body, out any) error {
	fail := func(status int, err error) error {
		c.log.WithFields(logrus.Fields{
			"op":     op,
			"method": method,
			"path":   path,
			"status": status,
		}).WithError(err).Debug("request failed")
		return &RequestError{Op: op, Message: msg, StatusCode: status, Err: err}
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fail(0, errors.Wrap(err, "encode body"))
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fail(0, errors.Wrap(err, "build request"))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, errors.Wrapf(err, "%s %s", method, path))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return fail(res.StatusCode, errors.Errorf("unexpected status %s", res.Status))
	}

	if out == nil {
		io.Copy(io.Discard, res.Body)
	} else if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fail(res.StatusCode, errors.Wrap(err, "decode response"))
	}

	c.log.WithFields(logrus.Fields{
		"op":     op,
		"method": method,
		"path":   path,
		"status": res.StatusCode,
	}).Debug("request done")
	return nil
}
