package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"multivendor-client/internal/models"
	"multivendor-client/internal/util"
)

// Options configures a Client
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	APIKey   string
	LangCode string

	SettlementMaxAttempts int
	SettlementWait        time.Duration
	SettlementMaxWait     time.Duration
}

// Client talks to the commerce API. Response bodies are decoded into the
// caller's type and validated before they are returned.
type Client struct {
	http     *resty.Client
	poller   *resty.Client
	validate *validator.Validate
	logger   *zap.Logger

	mu    sync.RWMutex
	token string
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.SettlementMaxAttempts <= 0 {
		opts.SettlementMaxAttempts = 1
	}

	c := &Client{
		http:     newResty(opts),
		validate: validator.New(),
		logger:   util.GetLogger(),
	}

	c.poller = newResty(opts).
		SetRetryCount(opts.SettlementMaxAttempts - 1).
		SetRetryWaitTime(opts.SettlementWait).
		SetRetryMaxWaitTime(opts.SettlementMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= http.StatusInternalServerError)
		})

	return c
}

func newResty(opts Options) *resty.Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		rc.SetHeader("X-Api-Key", opts.APIKey)
	}
	if opts.LangCode != "" {
		rc.SetQueryParam("lang_code", opts.LangCode)
	}
	return rc
}

// SetToken sets the session token attached to every subsequent request.
// An empty token sends requests unauthenticated.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do performs one request. out may be nil when the body is not needed.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req := c.request(ctx, c.http)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := c.execute(req, method, path)
	if err != nil {
		return err
	}
	return c.decode(resp.Body(), out)
}

// AwaitOrder polls the order until settled reports true or the configured
// attempts run out. Waits between attempts back off up to the max wait.
func (c *Client) AwaitOrder(ctx context.Context, orderID int64, settled func(models.Order) bool) (models.Order, error) {
	req := c.request(ctx, c.poller).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil || r.IsError() {
				return false
			}
			var o models.Order
			if jerr := json.Unmarshal(r.Body(), &o); jerr != nil {
				return false
			}
			return o.OrderID == 0 || !settled(o)
		})

	resp, err := c.execute(req, http.MethodGet, fmt.Sprintf("/sra_orders/%d", orderID))
	if err != nil {
		return models.Order{}, err
	}

	var order models.Order
	if err := c.decode(resp.Body(), &order); err != nil {
		return models.Order{}, err
	}
	if order.OrderID == 0 {
		return models.Order{}, NotFound("order")
	}
	if !settled(order) {
		return order, NewError(CodeTimeout, "payment settlement was not confirmed", resp.StatusCode(), nil)
	}
	return order, nil
}

func (c *Client) request(ctx context.Context, rc *resty.Client) *resty.Request {
	req := rc.R().SetContext(ctx)
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (c *Client) execute(req *resty.Request, method, path string) (*resty.Response, error) {
	start := time.Now()
	resp, err := req.Execute(method, path)

	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	route := routeLabel(path)
	statusLabel := strconv.Itoa(status)
	util.APIRequestDuration.WithLabelValues(method, route, statusLabel).Observe(time.Since(start).Seconds())
	util.APIRequestsTotal.WithLabelValues(method, route, statusLabel).Inc()

	if err != nil {
		c.logger.Warn("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Code: CodeTransport, Message: "request cancelled", Err: err}
		}
		return nil, Transport(err)
	}

	if resp.IsError() {
		apiErr := fromResponse(status, resp.Body())
		c.logger.Info("API request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("took", time.Since(start)),
	)
	return resp, nil
}

func (c *Client) decode(body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return Schema("empty response body", nil)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return Schema("unexpected response shape", err)
	}
	if err := c.check(out); err != nil {
		return Schema("response failed validation", err)
	}
	return nil
}

// check validates structs, and the struct elements of slices
func (c *Client) check(out interface{}) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return c.validate.Struct(v.Addr().Interface())
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			el := v.Index(i)
			if el.Kind() != reflect.Struct {
				return nil
			}
			if err := c.validate.Struct(el.Addr().Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

// routeLabel collapses numeric path segments so metrics stay low-cardinality
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segs[i] = ":id"
		}
	}
	return "/" + strings.Join(segs, "/")
}
