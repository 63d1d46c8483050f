package payment

import (
	"context"
	"sync"
	"time"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	darajaport "github.com/kmwangi/mpesa-gateway/internal/domain/port/daraja"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]any) {}
func (nopLogger) Info(string, map[string]any)  {}
func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Error(string, map[string]any) {}
func (nopLogger) Flush() error                 { return nil }

type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time                  { return f.now }
func (f *fixedClock) Since(t time.Time) time.Duration { return f.now.Sub(t) }
func (f *fixedClock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// fakeClient records the calls it receives and answers from canned values.
type fakeClient struct {
	pushCalls  int
	queryCalls int

	pushResult  *darajaport.STKPushResult
	pushErr     error
	queryResult *darajaport.STKQueryResult
	queryErr    error
}

func (f *fakeClient) STKPush(ctx context.Context, req darajaport.STKPushRequest) (*darajaport.STKPushResult, error) {
	f.pushCalls++
	return f.pushResult, f.pushErr
}

func (f *fakeClient) STKQuery(ctx context.Context, checkoutRequestID string) (*darajaport.STKQueryResult, error) {
	f.queryCalls++
	return f.queryResult, f.queryErr
}

func (f *fakeClient) B2CPayment(context.Context, darajaport.B2CRequest) (*darajaport.AsyncAccept, error) {
	return nil, nil
}

func (f *fakeClient) B2BPayment(context.Context, darajaport.B2BRequest) (*darajaport.AsyncAccept, error) {
	return nil, nil
}

func (f *fakeClient) AccountBalance(context.Context, darajaport.BalanceRequest) (*darajaport.AsyncAccept, error) {
	return nil, nil
}

func (f *fakeClient) TransactionStatus(context.Context, darajaport.StatusRequest) (*darajaport.AsyncAccept, error) {
	return nil, nil
}

func (f *fakeClient) ReverseTransaction(context.Context, darajaport.ReversalRequest) (*darajaport.AsyncAccept, error) {
	return nil, nil
}

func (f *fakeClient) GenerateQR(context.Context, darajaport.QRRequest) (*darajaport.QRResult, error) {
	return nil, nil
}

// fakePaymentRepo is an in-memory repository with the same conditional
// update semantics as the database-backed one.
type fakePaymentRepo struct {
	mu       sync.Mutex
	records  map[string]*entity.Payment
	applyErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{records: map[string]*entity.Payment{}}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[payment.CheckoutRequestID]; ok {
		return errs.ErrDuplicateRecord
	}
	stored := *payment
	r.records[payment.CheckoutRequestID] = &stored
	return nil
}

func (r *fakePaymentRepo) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[checkoutRequestID]
	if !ok {
		return nil, errs.ErrTransactionNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakePaymentRepo) ApplyResult(ctx context.Context, checkoutRequestID string, result entity.PaymentResult) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.applyErr != nil {
		return false, r.applyErr
	}
	stored, ok := r.records[checkoutRequestID]
	if !ok {
		return false, errs.ErrTransactionNotFound
	}
	if stored.Status != entity.StatusPending {
		return false, nil
	}
	code := result.ResultCode
	stored.Status = result.Status()
	stored.ResultCode = &code
	stored.ResultDesc = result.ResultDesc
	stored.MpesaReceiptNumber = result.MpesaReceiptNumber
	stored.TransactionDate = result.TransactionDate
	return true, nil
}

func (r *fakePaymentRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Payment, 0, len(r.records))
	for _, stored := range r.records {
		copied := *stored
		out = append(out, &copied)
	}
	return out, nil
}
