// Package order talks to the external grocery-delivery API. Placing an order
// is never retried automatically: a duplicate delivery is worse than a failed
// one, so failures surface to the user instead.
package order

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"grocery-planner/internal/config"
	"grocery-planner/internal/shopping"

	"github.com/golang-jwt/jwt/v5"
)

// Placer is the interface the approval flow depends on.
type Placer interface {
	PlaceOrder(ctx context.Context, storeID string, items []shopping.ShoppingListItem) (string, error)
}

// Client is an HTTP client for the delivery-order API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new delivery API client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.DeliveryAPIURL, "/"),
		apiKey:  cfg.DeliveryAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type orderItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

type orderRequest struct {
	StoreID string      `json:"store_id"`
	Items   []orderItem `json:"items"`
}

type orderResponse struct {
	Confirmation string `json:"confirmation"`
}

// PlaceOrder submits the to-buy portion of a shopping list and returns the
// delivery service's confirmation reference. Items already on hand are left
// out of the request.
func (c *Client) PlaceOrder(ctx context.Context, storeID string, items []shopping.ShoppingListItem) (string, error) {
	reqBody := orderRequest{StoreID: storeID}
	for _, item := range items {
		if item.ToBuy <= 0 {
			continue
		}
		reqBody.Items = append(reqBody.Items, orderItem{
			Name:     item.Name,
			Quantity: item.ToBuy,
			Unit:     item.Unit,
		})
	}
	if len(reqBody.Items) == 0 {
		return "", fmt.Errorf("nothing to order: every item is already in the pantry")
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order request: %w", err)
	}

	token, err := c.createToken()
	if err != nil {
		return "", fmt.Errorf("failed to create api token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/orders", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("delivery api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var orderResp orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return "", fmt.Errorf("failed to decode order response: %w", err)
	}
	if orderResp.Confirmation == "" {
		return "", fmt.Errorf("no confirmation reference returned")
	}

	return orderResp.Confirmation, nil
}

// createToken generates a short-lived JWT from the "id:secret" API key.
func (c *Client) createToken() (string, error) {
	keyParts := strings.Split(c.apiKey, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid api key format: expected id:secret")
	}

	id := keyParts[0]
	secret, err := hex.DecodeString(keyParts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": "/v1/orders/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
