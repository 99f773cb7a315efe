// Package client is a Go client for the chaintrack verification API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/server"
	"github.com/chaintrack-labs/chaintrack-go/pkg/verification"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

// ClientConfig holds the configuration for the API client
type ClientConfig struct {
	ServerURL  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new API client
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.ServerURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if _, err := url.ParseRequestURI(config.ServerURL); err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(config.ServerURL, "/"),
		httpClient: httpClient,
		logger:     config.Logger,
	}, nil
}

// VerifyProduct asks the server to verify a product
func (c *Client) VerifyProduct(ctx context.Context, batchCode, productID string) (*verification.Result, error) {
	q := url.Values{}
	q.Set("productId", productID)
	q.Set("batchCode", batchCode)

	var res verification.Result
	if err := c.do(ctx, http.MethodGet, "/verify?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetBatch fetches a batch with its product count and movements
func (c *Client) GetBatch(ctx context.Context, batchCode string) (*server.BatchResponse, error) {
	var res server.BatchResponse
	if err := c.do(ctx, http.MethodGet, "/batches/"+url.PathEscape(batchCode), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetProof fetches the stored inclusion proof of a product
func (c *Client) GetProof(ctx context.Context, batchCode, productID string) (*server.ProofResponse, error) {
	path := fmt.Sprintf("/batches/%s/products/%s/proof", url.PathEscape(batchCode), url.PathEscape(productID))
	var res server.ProofResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// VerifyProof submits a proof for verification. batchCode may be empty for a
// standalone check.
func (c *Client) VerifyProof(ctx context.Context, batchCode string, proof *merkle.InclusionProof) (*server.VerifyProofResponse, error) {
	if proof == nil {
		return nil, fmt.Errorf("proof cannot be nil")
	}
	body := server.VerifyProofRequest{
		Leaf:      merkle.FormatDigest(proof.Leaf),
		Proof:     proof.ProofHex(),
		Root:      merkle.FormatDigest(proof.Root),
		BatchCode: batchCode,
	}
	var res server.VerifyProofResponse
	if err := c.do(ctx, http.MethodPost, "/proofs/verify", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Health returns nil when the server reports healthy persistence
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = strings.NewReader(string(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Sugar().Debugw("Calling chaintrack API", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError maps an error response back onto the package sentinels
func statusError(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		msg = e.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", contractCaller.ErrLedgerUnavailable, msg)
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}
}
