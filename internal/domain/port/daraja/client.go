package daraja

import "context"

// STKPushRequest initiates a customer payment prompt. PhoneNumber must
// already be in international MSISDN form.
type STKPushRequest struct {
	PhoneNumber      string
	Amount           int64 // whole KES shillings
	AccountReference string
	TransactionDesc  string
}

// STKPushResult is the vendor's synchronous acceptance of an STK Push.
// Acceptance only means the prompt was enqueued, not that the customer paid.
type STKPushResult struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseDescription string
	CustomerMessage     string
}

// STKQueryResult is the vendor's answer to a live STK status query. A
// ResultCode is only present once the transaction has settled on the
// vendor side.
type STKQueryResult struct {
	ResultCode *int
	ResultDesc string
}

// B2CRequest initiates a business-to-customer disbursement.
type B2CRequest struct {
	PhoneNumber string
	Amount      int64
	CommandID   string
	Remarks     string
	Occasion    string
}

// B2BRequest initiates a business-to-business payment.
type B2BRequest struct {
	PartyB           string
	Amount           int64
	CommandID        string
	AccountReference string
	Remarks          string
}

// BalanceRequest initiates an account balance enquiry.
type BalanceRequest struct {
	PartyA         string
	IdentifierType string
	Remarks        string
}

// StatusRequest initiates a transaction status enquiry.
type StatusRequest struct {
	TransactionID  string
	PartyA         string
	IdentifierType string
	Remarks        string
	Occasion       string
}

// ReversalRequest initiates a transaction reversal.
type ReversalRequest struct {
	TransactionID string
	Amount        int64
	ReceiverParty string
	Remarks       string
	Occasion      string
}

// QRRequest generates an M-Pesa QR payload.
type QRRequest struct {
	MerchantName string
	RefNo        string
	Amount       *int64
	TrxCode      string
	CPI          string
}

// AsyncAccept is the vendor's synchronous acceptance of a request whose
// outcome arrives later on the result or timeout callback.
type AsyncAccept struct {
	ConversationID           string
	OriginatorConversationID string
	ResponseDescription      string
}

// QRResult carries the raw QR payload string issued by the vendor.
type QRResult struct {
	RequestID string
	QRCode    string
}

// Client issues signed requests to the Daraja API. Implementations check
// the vendor response code and surface rejections as domain errors, so a
// nil error always means the request was accepted.
type Client interface {
	STKPush(ctx context.Context, req STKPushRequest) (*STKPushResult, error)
	STKQuery(ctx context.Context, checkoutRequestID string) (*STKQueryResult, error)
	B2CPayment(ctx context.Context, req B2CRequest) (*AsyncAccept, error)
	B2BPayment(ctx context.Context, req B2BRequest) (*AsyncAccept, error)
	AccountBalance(ctx context.Context, req BalanceRequest) (*AsyncAccept, error)
	TransactionStatus(ctx context.Context, req StatusRequest) (*AsyncAccept, error)
	ReverseTransaction(ctx context.Context, req ReversalRequest) (*AsyncAccept, error)
	GenerateQR(ctx context.Context, req QRRequest) (*QRResult, error)
}
