package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"staffdesk/client/codec"
	"staffdesk/client/query"
)

// Client talks to the users backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient creates a client against the given backend origin.
func NewClient(baseURL string, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// BaseURL returns the backend origin the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListResult is the listing endpoint's response envelope.
type ListResult struct {
	Users      []codec.UserRecord `json:"users"`
	TotalUsers int                `json:"totalUsers"`
}

// ListUsers fetches one page of users for the given filter snapshot.
func (c *Client) ListUsers(ctx context.Context, params query.Params) (*ListResult, error) {
	url := c.baseURL + query.UsersPath + "?" + params.Encode()
	c.log.WithField("url", url).Debug("listing users")

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var result ListResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode user list: %w", err)
	}
	return &result, nil
}

// GetUser fetches a single user by id. A missing record yields ErrNotFound.
func (c *Client) GetUser(ctx context.Context, id string) (*codec.UserRecord, error) {
	body, err := c.get(ctx, c.baseURL+query.UsersPath+"/"+id)
	if err != nil {
		return nil, err
	}
	return codec.ParseRecord(body)
}

// ListDepartments fetches the read-only department reference list.
func (c *Client) ListDepartments(ctx context.Context) ([]codec.Department, error) {
	body, err := c.get(ctx, c.baseURL+"/api/departments")
	if err != nil {
		return nil, err
	}

	var departments []codec.Department
	if err := json.Unmarshal(body, &departments); err != nil {
		return nil, fmt.Errorf("failed to decode departments: %w", err)
	}
	return departments, nil
}

// CreateUser submits an encoded payload as a new user.
func (c *Client) CreateUser(ctx context.Context, payload *codec.Payload) (*codec.UserRecord, error) {
	return c.submit(ctx, http.MethodPost, c.baseURL+query.UsersPath, payload)
}

// UpdateUser submits an encoded payload against an existing record.
func (c *Client) UpdateUser(ctx context.Context, id string, payload *codec.Payload) (*codec.UserRecord, error) {
	return c.submit(ctx, http.MethodPut, c.baseURL+query.UsersPath+"/"+id, payload)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) submit(ctx context.Context, method, url string, payload *codec.Payload) (*codec.UserRecord, error) {
	contentType, body, err := payload.Body()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	c.log.WithFields(logrus.Fields{
		"method":    method,
		"url":       url,
		"multipart": payload.Multipart(),
	}).Debug("submitting user")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return codec.ParseRecord(raw)
}
