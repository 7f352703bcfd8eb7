// Package adminclient is the programmatic counterpart of the admin dashboard:
// a typed API client plus the dashboard's list/refresh flow.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avolkov/shop-api/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   accessToken,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// APIError carries the backend's {"error": string} body and status code.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Stock       uint    `json:"stock"`
	CategoryID  *string `json:"categoryId,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	var prod models.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", in, &prod); err != nil {
		return nil, err
	}
	return &prod, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	var prod models.Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+id, in, &prod); err != nil {
		return nil, err
	}
	return &prod, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	var users []models.PublicUser
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Me(ctx context.Context) (*models.PublicUser, error) {
	var user models.PublicUser
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateMe(ctx context.Context, name, email string) (*models.PublicUser, error) {
	body := map[string]string{"name": name, "email": email}
	var user models.PublicUser
	if err := c.do(ctx, http.MethodPut, "/api/users/me", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPut, "/api/users/me/password", body, nil)
}

func (c *Client) SetRole(ctx context.Context, id, role string) (*models.PublicUser, error) {
	body := map[string]string{"role": role}
	var user models.PublicUser
	if err := c.do(ctx, http.MethodPatch, "/api/users/"+id+"/role", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+id, nil, nil)
}
