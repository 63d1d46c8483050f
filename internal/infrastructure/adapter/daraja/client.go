package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	darajaport "github.com/kmwangi/mpesa-gateway/internal/domain/port/daraja"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/config"
)

const (
	oauthPath    = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath  = "/mpesa/stkpush/v1/processrequest"
	stkQueryPath = "/mpesa/stkpushquery/v1/query"
	b2cPath      = "/mpesa/b2c/v1/paymentrequest"
	b2bPath      = "/mpesa/b2b/v1/paymentrequest"
	balancePath  = "/mpesa/accountbalance/v1/query"
	statusPath   = "/mpesa/transactionstatus/v1/query"
	reversalPath = "/mpesa/reversal/v1/request"
	qrPath       = "/mpesa/qrcode/v1/generate"
)

const (
	// Daraja identifier types: 4 = organization shortcode,
	// 11 = organization receiving the reversal.
	identifierShortCode        = "4"
	identifierReversalReceiver = "11"

	responseAccepted   = "0"
	qrResponseAccepted = "00"

	// Daraja signals an STK transaction still in flight with this error code
	// on an HTTP 500, not with a success envelope.
	stkStillProcessingCode = "500.001.1001"

	qrImageSize = "300"

	defaultTokenTTL = 3600 * time.Second
)

// Client is the HTTP implementation of the Daraja API port. It caches the
// OAuth token, signs STK requests with the shortcode passkey, and maps
// vendor rejections and throttling onto domain errors.
type Client struct {
	cfg          config.DarajaConfig
	baseURL      string
	httpClient   *http.Client
	tokens       *tokenSource
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// Option customizes the client, mainly for tests.
type Option func(*Client)

// WithBaseURL overrides the vendor base URL derived from the environment.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Daraja API client for the configured environment.
func NewClient(
	cfg config.DarajaConfig,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	opts ...Option,
) *Client {
	c := &Client{
		cfg:          cfg,
		baseURL:      cfg.BaseURL(),
		httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
		timeProvider: timeProvider,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tokens = newTokenSource(c.fetchToken, cfg.TokenRefreshMargin, timeProvider)
	return c
}

// STKPush initiates a customer payment prompt on the given phone.
func (c *Client) STKPush(ctx context.Context, req darajaport.STKPushRequest) (*darajaport.STKPushResult, error) {
	const op = "stk_push"

	timestamp := entity.FormatCompactTime(c.timeProvider.Now())
	payload := stkPushPayload{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          c.stkPassword(timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount,
		PartyA:            req.PhoneNumber,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.TransactionDesc,
	}

	var resp stkPushResponse
	if err := c.postJSON(ctx, op, stkPushPath, payload, &resp); err != nil {
		return nil, err
	}
	if resp.ResponseCode != responseAccepted {
		return nil, errs.NewVendorRejection(op, resp.ResponseDescription)
	}

	c.logger.Info("STK push accepted", map[string]any{
		"checkout_request_id": resp.CheckoutRequestID,
		"merchant_request_id": resp.MerchantRequestID,
	})

	return &darajaport.STKPushResult{
		MerchantRequestID:   resp.MerchantRequestID,
		CheckoutRequestID:   resp.CheckoutRequestID,
		ResponseDescription: resp.ResponseDescription,
		CustomerMessage:     resp.CustomerMessage,
	}, nil
}

// STKQuery asks the vendor for the live state of an STK transaction. A nil
// ResultCode in the result means the transaction has not settled yet.
func (c *Client) STKQuery(ctx context.Context, checkoutRequestID string) (*darajaport.STKQueryResult, error) {
	const op = "stk_query"

	timestamp := entity.FormatCompactTime(c.timeProvider.Now())
	payload := stkQueryPayload{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          c.stkPassword(timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	var resp stkQueryResponse
	if err := c.postJSON(ctx, op, stkQueryPath, payload, &resp); err != nil {
		if stillProcessing(err) {
			return &darajaport.STKQueryResult{}, nil
		}
		return nil, err
	}
	if resp.ResponseCode != responseAccepted {
		return nil, errs.NewVendorRejection(op, resp.ResponseDescription)
	}
	if resp.ResultCode == "" {
		return &darajaport.STKQueryResult{ResultDesc: resp.ResultDesc}, nil
	}

	code, err := strconv.Atoi(resp.ResultCode)
	if err != nil {
		return nil, errs.NewVendorFailure(op, fmt.Errorf("unparseable result code %q", resp.ResultCode))
	}
	return &darajaport.STKQueryResult{ResultCode: &code, ResultDesc: resp.ResultDesc}, nil
}

// B2CPayment initiates a disbursement to a customer phone.
func (c *Client) B2CPayment(ctx context.Context, req darajaport.B2CRequest) (*darajaport.AsyncAccept, error) {
	payload := b2cPayload{
		InitiatorName:      c.cfg.InitiatorName,
		SecurityCredential: c.cfg.SecurityCredential,
		CommandID:          req.CommandID,
		Amount:             req.Amount,
		PartyA:             c.cfg.ShortCode,
		PartyB:             req.PhoneNumber,
		Remarks:            req.Remarks,
		QueueTimeOutURL:    c.cfg.TimeoutURL,
		ResultURL:          c.cfg.ResultURL,
		Occasion:           req.Occasion,
	}
	return c.postAsync(ctx, "b2c_payment", b2cPath, payload)
}

// B2BPayment initiates a payment to another organization shortcode.
func (c *Client) B2BPayment(ctx context.Context, req darajaport.B2BRequest) (*darajaport.AsyncAccept, error) {
	payload := b2bPayload{
		Initiator:              c.cfg.InitiatorName,
		SecurityCredential:     c.cfg.SecurityCredential,
		CommandID:              req.CommandID,
		SenderIdentifierType:   identifierShortCode,
		RecieverIdentifierType: identifierShortCode,
		Amount:                 req.Amount,
		PartyA:                 c.cfg.ShortCode,
		PartyB:                 req.PartyB,
		AccountReference:       req.AccountReference,
		Remarks:                req.Remarks,
		QueueTimeOutURL:        c.cfg.TimeoutURL,
		ResultURL:              c.cfg.ResultURL,
	}
	return c.postAsync(ctx, "b2b_payment", b2bPath, payload)
}

// AccountBalance initiates a balance enquiry on the given party.
func (c *Client) AccountBalance(ctx context.Context, req darajaport.BalanceRequest) (*darajaport.AsyncAccept, error) {
	payload := balancePayload{
		Initiator:          c.cfg.InitiatorName,
		SecurityCredential: c.cfg.SecurityCredential,
		CommandID:          "AccountBalance",
		PartyA:             req.PartyA,
		IdentifierType:     req.IdentifierType,
		Remarks:            req.Remarks,
		QueueTimeOutURL:    c.cfg.TimeoutURL,
		ResultURL:          c.cfg.ResultURL,
	}
	return c.postAsync(ctx, "account_balance", balancePath, payload)
}

// TransactionStatus initiates a status enquiry for a receipt number.
func (c *Client) TransactionStatus(ctx context.Context, req darajaport.StatusRequest) (*darajaport.AsyncAccept, error) {
	payload := statusPayload{
		Initiator:          c.cfg.InitiatorName,
		SecurityCredential: c.cfg.SecurityCredential,
		CommandID:          "TransactionStatusQuery",
		TransactionID:      req.TransactionID,
		PartyA:             req.PartyA,
		IdentifierType:     req.IdentifierType,
		ResultURL:          c.cfg.ResultURL,
		QueueTimeOutURL:    c.cfg.TimeoutURL,
		Remarks:            req.Remarks,
		Occasion:           req.Occasion,
	}
	return c.postAsync(ctx, "transaction_status", statusPath, payload)
}

// ReverseTransaction initiates a reversal of a completed transaction.
func (c *Client) ReverseTransaction(ctx context.Context, req darajaport.ReversalRequest) (*darajaport.AsyncAccept, error) {
	payload := reversalPayload{
		Initiator:              c.cfg.InitiatorName,
		SecurityCredential:     c.cfg.SecurityCredential,
		CommandID:              "TransactionReversal",
		TransactionID:          req.TransactionID,
		Amount:                 req.Amount,
		ReceiverParty:          req.ReceiverParty,
		RecieverIdentifierType: identifierReversalReceiver,
		ResultURL:              c.cfg.ResultURL,
		QueueTimeOutURL:        c.cfg.TimeoutURL,
		Remarks:                req.Remarks,
		Occasion:               req.Occasion,
	}
	return c.postAsync(ctx, "transaction_reversal", reversalPath, payload)
}

// GenerateQR asks the vendor for a dynamic M-Pesa QR payload.
func (c *Client) GenerateQR(ctx context.Context, req darajaport.QRRequest) (*darajaport.QRResult, error) {
	const op = "generate_qr"

	payload := qrPayload{
		MerchantName: req.MerchantName,
		RefNo:        req.RefNo,
		Amount:       req.Amount,
		TrxCode:      req.TrxCode,
		CPI:          req.CPI,
		Size:         qrImageSize,
	}

	var resp qrResponse
	if err := c.postJSON(ctx, op, qrPath, payload, &resp); err != nil {
		return nil, err
	}
	if resp.ResponseCode != qrResponseAccepted {
		return nil, errs.NewVendorRejection(op, resp.ResponseDescription)
	}
	return &darajaport.QRResult{RequestID: resp.RequestID, QRCode: resp.QRCode}, nil
}

// postAsync posts a payload whose outcome arrives later on the result or
// timeout callback and checks the synchronous acceptance envelope.
func (c *Client) postAsync(ctx context.Context, op, path string, payload any) (*darajaport.AsyncAccept, error) {
	var resp asyncAcceptResponse
	if err := c.postJSON(ctx, op, path, payload, &resp); err != nil {
		return nil, err
	}
	if resp.ResponseCode != responseAccepted {
		return nil, errs.NewVendorRejection(op, resp.ResponseDescription)
	}

	c.logger.Info("Vendor accepted async request", map[string]any{
		"operation":       op,
		"conversation_id": resp.ConversationID,
	})

	return &darajaport.AsyncAccept{
		ConversationID:           resp.ConversationID,
		OriginatorConversationID: resp.OriginatorConversationID,
		ResponseDescription:      resp.ResponseDescription,
	}, nil
}

// postJSON posts a signed JSON payload and decodes the response into out.
// Non-2xx statuses are classified into domain errors before returning.
func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errs.NewVendorFailure(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errs.NewVendorFailure(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewVendorFailure(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewVendorFailure(op, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Token may have been revoked ahead of its advertised expiry.
		c.tokens.Invalidate()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classifyHTTPError(op, resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errs.NewVendorFailure(op, fmt.Errorf("malformed vendor response: %w", err))
	}
	return nil
}

// classifyHTTPError turns a non-2xx vendor response into a domain error.
func (c *Client) classifyHTTPError(op string, status int, raw []byte) error {
	var vendorErr errorResponse
	_ = json.Unmarshal(raw, &vendorErr)

	c.logger.Warn("Vendor returned error status", map[string]any{
		"operation":     op,
		"status":        status,
		"error_code":    vendorErr.ErrorCode,
		"error_message": vendorErr.ErrorMessage,
	})

	switch {
	case status == http.StatusTooManyRequests,
		strings.Contains(vendorErr.ErrorMessage, "Spike arrest"):
		return &errs.VendorError{Operation: op, Description: vendorErr.ErrorMessage, Err: errs.ErrRateLimited}
	case vendorErr.ErrorCode == stkStillProcessingCode:
		return &errs.VendorError{
			Operation:   op,
			Description: vendorErr.ErrorMessage,
			Err:         fmt.Errorf("%w: %s", errs.ErrVendorUnavailable, stkStillProcessingCode),
		}
	case status >= 400 && status < 500:
		return errs.NewVendorRejection(op, vendorErr.ErrorMessage)
	default:
		return errs.NewVendorFailure(op, fmt.Errorf("vendor status %d: %s", status, vendorErr.ErrorMessage))
	}
}

// fetchToken performs the OAuth client-credentials exchange.
func (c *Client) fetchToken(ctx context.Context) (string, time.Duration, error) {
	const op = "oauth_token"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+oauthPath, nil)
	if err != nil {
		return "", 0, errs.NewVendorFailure(op, err)
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+credentials)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, errs.NewVendorFailure(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, errs.NewVendorFailure(op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, errs.NewVendorFailure(op, fmt.Errorf("vendor status %d", resp.StatusCode))
	}

	var body oauthResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", 0, errs.NewVendorFailure(op, fmt.Errorf("malformed token response: %w", err))
	}
	if body.AccessToken == "" {
		return "", 0, errs.NewVendorFailure(op, fmt.Errorf("empty access token"))
	}

	ttl := defaultTokenTTL
	if seconds, err := strconv.Atoi(body.ExpiresIn); err == nil && seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}

	c.logger.Debug("Fetched vendor access token", map[string]any{"ttl": ttl.String()})
	return body.AccessToken, ttl, nil
}

// stkPassword derives the STK request password for the given timestamp.
func (c *Client) stkPassword(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.cfg.ShortCode + c.cfg.Passkey + timestamp))
}

// stillProcessing reports whether the error is the vendor's "transaction is
// being processed" answer to an STK query.
func stillProcessing(err error) bool {
	var vendorErr *errs.VendorError
	if !errors.As(err, &vendorErr) || vendorErr.Err == nil {
		return false
	}
	return strings.Contains(vendorErr.Err.Error(), stkStillProcessingCode)
}
