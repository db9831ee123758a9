package leadsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierca1/leadgrid/internal/entity"
)

// LeadAPI is what the Syncer needs from the gateway.
type LeadAPI interface {
	FetchLeads(ctx context.Context) ([]entity.Lead, error)
	PatchLead(ctx context.Context, id string, fields map[string]interface{}) error
}

// APIClient is the plain HTTP client for the LeadGrid gateway.
type APIClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *APIClient) Login(ctx context.Context, accessID, password string) error {
	body, _ := json.Marshal(map[string]string{"accessId": accessID, "password": password})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("login rejected: %s", out.Message)
	}

	c.Token = out.Token
	return nil
}

func (c *APIClient) FetchLeads(ctx context.Context) ([]entity.Lead, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/leads", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var leads []entity.Lead
	if err := json.NewDecoder(resp.Body).Decode(&leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *APIClient) PatchLead(ctx context.Context, id string, fields map[string]interface{}) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.BaseURL+"/lead/"+id, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func (c *APIClient) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var out struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &out) == nil && out.Error != "" {
		return fmt.Errorf("api returned %d: %s", resp.StatusCode, out.Error)
	}
	return fmt.Errorf("api returned %d", resp.StatusCode)
}
