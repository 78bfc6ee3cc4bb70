package cainiao

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"pickup/internal/core/domain/model/apiconfig"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultTimeout applies when NewClient is given a timeout that is not positive.
const DefaultTimeout = 30 * time.Second

// Envelope is the outer request body.
type Envelope struct {
	MsgType            string `json:"msg_type"`
	LogisticProviderID string `json:"logistic_provider_id"`
	LogisticsInterface string `json:"logistics_interface"`
	DataDigest         string `json:"data_digest"`
}

type accessOption struct {
	AccessCode string `json:"accessCode"`
}

type signedRequest struct {
	Request      any          `json:"request"`
	AccessOption accessOption `json:"accessOption"`
}

// Response is a parsed gateway reply. Data is left raw for the caller.
type Response struct {
	Success      flexBool        `json:"success"`
	ErrorCode    flexString      `json:"errorCode"`
	ErrorMessage string          `json:"errorMessage"`
	Data         json.RawMessage `json:"data"`
}

// Client signs and sends gateway calls. Each Call is a single attempt.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a client whose calls time out after timeout. Calls are
// never retried: a create or cancel may already have taken effect remotely.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:   resty.New().SetTimeout(timeout).SetRetryCount(0),
		logger: logger.Named("cainiao"),
	}
}

// BuildEnvelope wraps payload with the access code and signs it with cfg.
func BuildEnvelope(cfg *apiconfig.Config, msgType string, payload any) (Envelope, error) {
	body, err := json.Marshal(signedRequest{
		Request:      payload,
		AccessOption: accessOption{AccessCode: cfg.AccessCode()},
	})
	if err != nil {
		return Envelope{}, err
	}

	logisticsInterface := string(body)
	return Envelope{
		MsgType:            msgType,
		LogisticProviderID: cfg.ProviderID(),
		LogisticsInterface: logisticsInterface,
		DataDigest:         Sign(logisticsInterface, cfg.AppSecret()),
	}, nil
}

// Call signs payload for msgType with cfg's secret, posts it to cfg's gateway
// URL and decodes the envelope reply.
//
// Every failure is an *APIError. Transport problems carry CodeTransport or
// CodeTimeout, an unreadable body carries CodeBadResponse, a non-2xx reply
// carries HTTP_<status>, and success=false carries the remote errorCode.
//
// Example:
//
//	client := cainiao.NewClient(10*time.Second, logger)
//	resp, err := client.Call(ctx, cfg, cainiao.MsgQueryOrder, payload)
//	var apiErr *cainiao.APIError
//	if errors.As(err, &apiErr) && apiErr.Transient() {
//	    // safe to retry on the next sync run
//	}
func (c *Client) Call(ctx context.Context, cfg *apiconfig.Config, msgType string, payload any) (*Response, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	envelope, err := BuildEnvelope(cfg, msgType, payload)
	if err != nil {
		return nil, &APIError{MsgType: msgType, Code: CodeBadResponse, Message: "encode request", Cause: err}
	}

	log := c.logger.With(
		zap.String("msg_type", msgType),
		zap.String("provider_id", cfg.ProviderID()),
		zap.String("gateway", cfg.APIGateway()),
	)
	log.Info("gateway request", zap.String("logistics_interface", envelope.LogisticsInterface))

	started := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(envelope).
		Post(cfg.APIGateway())
	elapsed := time.Since(started)

	if err != nil {
		apiErr := transportError(msgType, err)
		log.Error("gateway call failed", zap.Duration("elapsed", elapsed), zap.Error(apiErr))
		return nil, apiErr
	}

	log = log.With(zap.Int("http_status", resp.StatusCode()), zap.Duration("elapsed", elapsed))
	if resp.StatusCode() != http.StatusOK {
		apiErr := &APIError{
			MsgType: msgType,
			Code:    "HTTP_" + strconv.Itoa(resp.StatusCode()),
			Message: string(resp.Body()),
		}
		log.Error("gateway returned non-200", zap.ByteString("body", resp.Body()))
		return nil, apiErr
	}

	var parsed Response
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		log.Error("gateway returned unreadable body", zap.ByteString("body", resp.Body()), zap.Error(err))
		return nil, &APIError{MsgType: msgType, Code: CodeBadResponse, Message: "decode response", Cause: err}
	}

	if !parsed.Success {
		apiErr := &APIError{
			MsgType: msgType,
			Code:    string(parsed.ErrorCode),
			Message: parsed.ErrorMessage,
		}
		log.Warn("gateway rejected request", zap.ByteString("body", resp.Body()))
		return nil, apiErr
	}

	log.Info("gateway response", zap.ByteString("body", resp.Body()))
	return &parsed, nil
}

func transportError(msgType string, err error) *APIError {
	code := CodeTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		code = CodeTimeout
	}
	return &APIError{MsgType: msgType, Code: code, Message: "request failed", Cause: err}
}
