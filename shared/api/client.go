// Package api talks to the Gradi analysis service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gradi-client/internal/apperrors"
	"gradi-client/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

const requestIDHeader = "X-Request-ID"

// Client is a thin wrapper around the three service endpoints.
type Client struct {
	baseURL      string
	historyLimit int
	client       *resty.Client
}

// NewClient builds a client for baseURL. timeout bounds every call.
func NewClient(baseURL string, timeout time.Duration, historyLimit int) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	if historyLimit <= 0 {
		historyLimit = 10
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		historyLimit: historyLimit,
		client:       client,
	}
}

func (c *Client) makeRequest(ctx context.Context) (*resty.Request, string) {
	requestID := uuid.NewString()
	req := c.client.R()
	req.SetContext(ctx)
	req.SetHeader(requestIDHeader, requestID)
	return req, requestID
}

// Health returns the liveness payload of the service.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	req, _ := c.makeRequest(ctx)
	resp, err := req.Get(fmt.Sprintf("%s/api/health", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("Health check failed: %w", apperrors.Classify(err))
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("Health check failed: status code %d", resp.StatusCode())
	}

	var status models.HealthStatus
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return nil, fmt.Errorf("Health check failed: %w", &apperrors.UnexpectedError{Cause: err})
	}
	return &status, nil
}

// AnalyzeVideo submits one analysis request. A 2xx response is returned as
// an envelope for the caller to interpret; anything else becomes one of the
// apperrors kinds with its user-facing message already derived.
func (c *Client) AnalyzeVideo(ctx context.Context, request models.AnalysisRequest) (*models.Envelope, error) {
	req, requestID := c.makeRequest(ctx)
	logger := log.WithFields(log.Fields{"request_id": requestID, "url": request.YouTubeURL})
	logger.Debug("Submitting video for analysis")

	start := time.Now()
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		Post(fmt.Sprintf("%s/api/analyze-video", c.baseURL))
	if err != nil {
		err = apperrors.Classify(err)
		logger.WithError(err).Warn("Analysis request failed")
		return nil, err
	}

	logger = logger.WithFields(log.Fields{"status": resp.StatusCode(), "duration": time.Since(start).String()})
	if !resp.IsSuccess() {
		appErr := &apperrors.ApplicationError{Status: resp.StatusCode(), Message: errorMessage(resp.Body())}
		logger.WithError(appErr).Warn("Analysis service returned an error status")
		return nil, appErr
	}

	var envelope models.Envelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		logger.WithError(err).Warn("Analysis response could not be decoded")
		return nil, &apperrors.UnexpectedError{Cause: fmt.Errorf("invalid response body: %w", err)}
	}

	logger.WithField("success", envelope.Success).Debug("Analysis response received")
	return &envelope, nil
}

// RecentAnalyses lists the latest analyses stored by the service. A limit
// of zero or less uses the configured default.
func (c *Client) RecentAnalyses(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = c.historyLimit
	}

	req, _ := c.makeRequest(ctx)
	req.SetQueryParam("limit", strconv.Itoa(limit))
	resp, err := req.Get(fmt.Sprintf("%s/api/analyses", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch analyses: %w", apperrors.Classify(err))
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("Failed to fetch analyses: %w", &apperrors.ApplicationError{
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("status code %d", resp.StatusCode()),
		})
	}

	var records []models.AnalysisRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("Failed to fetch analyses: %w", &apperrors.UnexpectedError{Cause: err})
	}
	return records, nil
}

// errorMessage picks the message of a non-2xx body: detail, then error,
// then the generic text.
func errorMessage(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apperrors.AnalysisFailedMessage
	}
	if detail := DetailText(payload.Detail); detail != "" {
		return detail
	}
	if payload.Error != "" {
		return payload.Error
	}
	return apperrors.AnalysisFailedMessage
}

// DetailText renders a detail field. Plain strings are returned as is;
// validation lists ([{"msg": ...}]) are joined with "; ".
func DetailText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		var msgs []string
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return strings.TrimSpace(string(raw))
}
