package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-console/internal/domain/models"
)

const requestIDHeader = "X-Request-ID"

// Client exposes the inventory REST operations used by the console.
type Client interface {
	Create(ctx context.Context, record models.InventoryRecord) (*models.InventoryRecord, error)
	Update(ctx context.Context, id string, record models.InventoryRecord) (*models.InventoryRecord, error)
	Retrieve(ctx context.Context, id string) (*models.InventoryRecord, error)
	Delete(ctx context.Context, id string) error
	Restock(ctx context.Context, id string) (*models.InventoryRecord, error)
	Search(ctx context.Context, filter models.SearchFilter) ([]models.InventoryRecord, error)
	Do(ctx context.Context, req models.Request) (*Response, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

// Options configures the API client.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	EscapeQuery bool
	Transport   http.RoundTripper
}

// APIClient is a resty-backed implementation of Client. It never retries.
type APIClient struct {
	httpClient  *resty.Client
	escapeQuery bool
	logger      *zap.Logger
}

// NewClient builds an inventory API client. A zero timeout leaves requests unbounded.
func NewClient(opts Options, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetTimeout(opts.Timeout)
	if opts.Transport != nil {
		restyClient.SetTransport(opts.Transport)
	}

	return &APIClient{
		httpClient:  restyClient,
		escapeQuery: opts.EscapeQuery,
		logger:      logger,
	}
}

// Response is the decoded result of a successful call. Exactly one of Record and Records is
// set for operations that return data; delete leaves both empty.
type Response struct {
	StatusCode int
	Record     *models.InventoryRecord
	Records    []models.InventoryRecord
}

// HealthResponse mirrors the backend health payload.
type HealthResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer. Message is the decoded "message" field, empty when the body
// was absent or not the expected JSON.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inventory api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("inventory api error: status=%d, message=%s", e.StatusCode, e.Message)
}

// AsAPIError unwraps an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type errorBody struct {
	Message string `json:"message"`
}

// Create posts a new record. Any id on the record is dropped.
func (c *APIClient) Create(ctx context.Context, record models.InventoryRecord) (*models.InventoryRecord, error) {
	body := record.Payload()
	resp, err := c.Do(ctx, models.Request{
		Operation: models.OperationCreate,
		Method:    http.MethodPost,
		Path:      models.CollectionPath,
		Body:      &body,
	})
	if err != nil {
		return nil, err
	}
	return resp.Record, nil
}

// Update replaces the record with the given id.
func (c *APIClient) Update(ctx context.Context, id string, record models.InventoryRecord) (*models.InventoryRecord, error) {
	body := record.Payload()
	resp, err := c.Do(ctx, models.Request{
		Operation: models.OperationUpdate,
		Method:    http.MethodPut,
		Path:      models.ItemPath(id),
		Body:      &body,
	})
	if err != nil {
		return nil, err
	}
	return resp.Record, nil
}

// Retrieve fetches one record.
func (c *APIClient) Retrieve(ctx context.Context, id string) (*models.InventoryRecord, error) {
	resp, err := c.Do(ctx, models.Request{Operation: models.OperationRetrieve, Method: http.MethodGet, Path: models.ItemPath(id)})
	if err != nil {
		return nil, err
	}
	return resp.Record, nil
}

// Delete removes one record. The response body is ignored.
func (c *APIClient) Delete(ctx context.Context, id string) error {
	_, err := c.Do(ctx, models.Request{Operation: models.OperationDelete, Method: http.MethodDelete, Path: models.ItemPath(id)})
	return err
}

// Restock asks the backend to replenish the record according to its own policy.
func (c *APIClient) Restock(ctx context.Context, id string) (*models.InventoryRecord, error) {
	resp, err := c.Do(ctx, models.Request{Operation: models.OperationRestock, Method: http.MethodPut, Path: models.ItemPath(id) + "/restock"})
	if err != nil {
		return nil, err
	}
	return resp.Record, nil
}

// Search lists records matching the filter, in server order.
func (c *APIClient) Search(ctx context.Context, filter models.SearchFilter) ([]models.InventoryRecord, error) {
	resp, err := c.Do(ctx, models.Request{
		Operation: models.OperationSearch,
		Method:    http.MethodGet,
		Path:      models.CollectionPath,
		Query:     filter.Encode(c.escapeQuery),
	})
	if err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// Do issues exactly one HTTP request for req and decodes the payload for its operation.
func (c *APIClient) Do(ctx context.Context, req models.Request) (*Response, error) {
	requestID := uuid.NewString()

	r := c.httpClient.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID)
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	var (
		record  models.InventoryRecord
		records []models.InventoryRecord
	)
	switch req.Operation {
	case models.OperationSearch:
		r.SetResult(&records)
	case models.OperationDelete:
	default:
		r.SetResult(&record)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.URL())
	if err != nil {
		return nil, fmt.Errorf("%s inventory: %w", req.Operation, err)
	}

	c.logger.Debug("inventory request completed",
		zap.String("operation", string(req.Operation)),
		zap.String("method", req.Method),
		zap.String("url", req.URL()),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID))

	// Error bodies are decoded by hand: a malformed one must still surface as an APIError.
	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: decodeErrorMessage(resp.Body())}
	}

	out := &Response{StatusCode: resp.StatusCode()}
	switch req.Operation {
	case models.OperationSearch:
		if records == nil {
			if err := decodeInto(resp.Body(), &records); err != nil {
				return nil, fmt.Errorf("decode search response: %w", err)
			}
		}
		out.Records = records
	case models.OperationDelete:
	default:
		if record == (models.InventoryRecord{}) {
			if err := decodeInto(resp.Body(), &record); err != nil {
				return nil, fmt.Errorf("decode %s response: %w", req.Operation, err)
			}
		}
		out.Record = &record
	}

	return out, nil
}

// Health calls the backend liveness endpoint.
func (c *APIClient) Health(ctx context.Context) (*HealthResponse, error) {
	result := new(HealthResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get("/health")
	if err != nil {
		return nil, fmt.Errorf("inventory health: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: decodeErrorMessage(resp.Body())}
	}
	return result, nil
}

// decodeInto is used when resty skipped unmarshalling because the response was not labelled JSON.
func decodeInto(body []byte, v any) error {
	if len(body) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(body, v)
}

func decodeErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload errorBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
