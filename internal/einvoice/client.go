package einvoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/artha-erp/artha-erp/internal/shared"
)

const ackDateFormat = "2006-01-02 15:04:05"

// errUnauthorized signals a rejected auth token; the service invalidates the
// cached token and retries exactly once.
var errUnauthorized = &shared.ExternalServiceError{
	Code:      "AUTH401",
	Message:   "authentication token rejected",
	Retryable: true,
}

// Client speaks the portal JSON protocol.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient constructs a portal client.
func NewClient(baseURL, username, password string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	AuthToken string `json:"auth_token"`
	ExpiresIn int64  `json:"expires_in"`
}

type irnResponse struct {
	Irn           string `json:"Irn"`
	AckNo         string `json:"AckNo"`
	AckDt         string `json:"AckDt"`
	SignedInvoice string `json:"SignedInvoice"`
	SignedQRCode  string `json:"SignedQRCode"`
}

type cancelRequest struct {
	Irn    string `json:"Irn"`
	CnlRsn int    `json:"CnlRsn"`
	CnlRem string `json:"CnlRem"`
}

type cancelResponse struct {
	Irn        string `json:"Irn"`
	CancelDate string `json:"CancelDate"`
}

type portalError struct {
	ErrorCd string `json:"error_cd"`
	Message string `json:"message"`
}

// Authenticate obtains a fresh portal token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(authRequest{Username: c.username, Password: c.password})
	if err != nil {
		return "", err
	}
	resp, err := c.post(ctx, "/eivital/v1.04/auth", "", body)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", classifyFailure(resp)
	}
	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", transportError("decode auth response", err)
	}
	if auth.AuthToken == "" {
		return "", &shared.ExternalServiceError{
			Code:      "AUTH",
			Message:   "portal returned empty auth token",
			Retryable: true,
		}
	}
	return auth.AuthToken, nil
}

// GenerateIRN submits the registration payload and returns the acknowledged
// IRN data.
func (c *Client) GenerateIRN(ctx context.Context, token string, payload Payload) (*IRNResult, string, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", "", err
	}
	resp, err := c.post(ctx, "/eicore/v1.03/Invoice", token, body)
	if err != nil {
		return nil, "", "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", "", classifyFailure(resp)
	}
	var ack irnResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, "", "", transportError("decode IRN response", err)
	}
	ackDate, err := time.Parse(ackDateFormat, ack.AckDt)
	if err != nil {
		return nil, "", "", transportError("parse ack date", err)
	}
	result := &IRNResult{IRN: ack.Irn, AckNo: ack.AckNo, AckDate: ackDate}
	return result, ack.SignedInvoice, ack.SignedQRCode, nil
}

// CancelIRN cancels a registered IRN on the portal.
func (c *Client) CancelIRN(ctx context.Context, token, irn string, reasonCode int, remarks string) (time.Time, error) {
	body, err := json.Marshal(cancelRequest{Irn: irn, CnlRsn: reasonCode, CnlRem: remarks})
	if err != nil {
		return time.Time{}, err
	}
	resp, err := c.post(ctx, "/eicore/v1.03/Invoice/Cancel", token, body)
	if err != nil {
		return time.Time{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, classifyFailure(resp)
	}
	var cancelled cancelResponse
	if err := json.NewDecoder(resp.Body).Decode(&cancelled); err != nil {
		return time.Time{}, transportError("decode cancel response", err)
	}
	cancelDate, err := time.Parse(ackDateFormat, cancelled.CancelDate)
	if err != nil {
		return time.Time{}, transportError("parse cancel date", err)
	}
	return cancelDate, nil
}

// GetIRN queries the portal by IRN for reconciliation.
func (c *Client) GetIRN(ctx context.Context, token, irn string) (*IRNResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/eicore/v1.03/Invoice/irn/%s", c.baseURL, irn), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("portal request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyFailure(resp)
	}
	var ack irnResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, transportError("decode IRN response", err)
	}
	ackDate, err := time.Parse(ackDateFormat, ack.AckDt)
	if err != nil {
		return nil, transportError("parse ack date", err)
	}
	return &IRNResult{IRN: ack.Irn, AckNo: ack.AckNo, AckDate: ackDate}, nil
}

func (c *Client) post(ctx context.Context, path, token string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("portal request", err)
	}
	return resp, nil
}

// classifyFailure turns a non-200 response into the error taxonomy: 401 means
// the token expired, a body carrying error_cd is a portal business rejection
// (code preserved verbatim), anything else is a transport-level failure.
func classifyFailure(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return errUnauthorized
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var perr portalError
	if err := json.Unmarshal(raw, &perr); err == nil && perr.ErrorCd != "" {
		return &shared.ExternalServiceError{
			Code:      perr.ErrorCd,
			Message:   perr.Message,
			Retryable: false,
		}
	}
	return &shared.ExternalServiceError{
		Code:      fmt.Sprintf("HTTP%d", resp.StatusCode),
		Message:   fmt.Sprintf("portal returned status %d", resp.StatusCode),
		Retryable: resp.StatusCode >= 500,
	}
}

func transportError(op string, err error) error {
	return &shared.ExternalServiceError{
		Code:      "TRANSPORT",
		Message:   op + " failed",
		Retryable: true,
		Err:       err,
	}
}
