/*
 * Copyright 2024 Raamsri Kumar <raam@tinkershack.in> and The StrataSTOR Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package httpclient

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stratastor/warren/internal/constants"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultRetryCount      = 3
	defaultRetryWaitTime   = 2 * time.Second
	defaultRetryMaxWait    = 10 * time.Second
	defaultMaxIdleConns    = 100
	defaultIdleConnTimeout = 90 * time.Second
	defaultUserAgent       = "Warren-Agent"
)

// Client wraps resty.Client for talking to a local warren daemon
type Client struct {
	*resty.Client
	config ClientConfig
}

// ClientConfig holds configuration values for the HTTP client
type ClientConfig struct {
	BaseURL          string
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	UserAgent        string
	Headers          map[string]string
	AllowInsecure    bool

	// Transport settings
	MaxIdleConns    int
	IdleConnTimeout time.Duration

	Debug bool
}

// NewClientConfig returns a ClientConfig with sensible defaults
func NewClientConfig() ClientConfig {
	return ClientConfig{
		Headers:          make(map[string]string),
		MaxIdleConns:     defaultMaxIdleConns,
		IdleConnTimeout:  defaultIdleConnTimeout,
		Timeout:          defaultTimeout,
		RetryCount:       defaultRetryCount,
		RetryWaitTime:    defaultRetryWaitTime,
		RetryMaxWaitTime: defaultRetryMaxWait,
		UserAgent:        defaultUserAgent + "/" + constants.WarrenVersion,
	}
}

// NewClient creates a new Resty client with provided configuration
func NewClient(config ClientConfig) *Client {
	client := &Client{
		Client: resty.New(),
		config: config,
	}
	client.applyConfig()
	return client
}

func (c *Client) applyConfig() {
	if c.config.Timeout > 0 {
		c.Client.SetTimeout(c.config.Timeout)
	}
	if c.config.RetryCount > 0 {
		c.Client.SetRetryCount(c.config.RetryCount)
	}
	if c.config.RetryWaitTime > 0 {
		c.Client.SetRetryWaitTime(c.config.RetryWaitTime)
	}
	if c.config.RetryMaxWaitTime > 0 {
		c.Client.SetRetryMaxWaitTime(c.config.RetryMaxWaitTime)
	}
	if c.config.UserAgent != "" {
		c.Client.SetHeader("User-Agent", c.config.UserAgent)
	}
	if c.config.BaseURL != "" {
		c.Client.SetBaseURL(c.config.BaseURL)
	}
	if c.config.Headers != nil {
		c.Client.SetHeaders(c.config.Headers)
	}
	if c.config.Debug {
		c.Client.SetDebug(true)
	} else {
		c.Client.SetDebug(false)
		c.Client.SetLogger(NoOpLogger{})
	}

	// Retry on 5xx as well as transport errors.
	c.Client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})

	transport := &http.Transport{
		MaxIdleConns:    c.config.MaxIdleConns,
		IdleConnTimeout: c.config.IdleConnTimeout,
	}
	if c.config.AllowInsecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	c.Client.SetTransport(transport)
}

// NoOpLogger suppresses all logs
type NoOpLogger struct{}

func (l NoOpLogger) Printf(format string, v ...interface{}) {}
func (l NoOpLogger) Debugf(format string, v ...interface{}) {}
func (l NoOpLogger) Warnf(format string, v ...interface{})  {}
func (l NoOpLogger) Errorf(format string, v ...interface{}) {}

// RequestConfig holds request-level parameters
type RequestConfig struct {
	Path        string
	QueryParams map[string]string
	Body        interface{}
	Result      interface{}
	Error       interface{}
	Context     context.Context
}

// Request wraps resty.Request with additional functionality
type Request struct {
	request *resty.Request
	config  RequestConfig
}

// NewRequest creates a new request with given configuration
func (c *Client) NewRequest(cfg RequestConfig) *Request {
	req := &Request{request: c.R(), config: cfg}

	if cfg.QueryParams != nil {
		req.request.SetQueryParams(cfg.QueryParams)
	}
	if cfg.Body != nil {
		req.request.SetBody(cfg.Body)
	}
	if cfg.Result != nil {
		req.request.SetResult(cfg.Result)
	}
	if cfg.Error != nil {
		req.request.SetError(cfg.Error)
	}
	if cfg.Context != nil {
		req.request.SetContext(cfg.Context)
	}
	return req
}

// Execute performs the HTTP request with the specified method
func (r *Request) Execute(method string) (*resty.Response, error) {
	return r.request.Execute(method, r.config.Path)
}

func (r *Request) Get() (*resty.Response, error) {
	return r.Execute(http.MethodGet)
}

func (r *Request) Post() (*resty.Response, error) {
	return r.Execute(http.MethodPost)
}
