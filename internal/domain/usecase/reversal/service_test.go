package reversal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

type fakeClient struct {
	reverseCalls int
	lastRequest  darajaport.ReversalRequest
	accept       *darajaport.AsyncAccept
	err          error
}

func (f *fakeClient) STKPush(context.Context, darajaport.STKPushRequest) (*darajaport.STKPushResult, error) {
	return nil, nil
}

func (f *fakeClient) STKQuery(context.Context, string) (*darajaport.STKQueryResult, error) {
	return nil, nil
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

func (f *fakeClient) ReverseTransaction(ctx context.Context, req darajaport.ReversalRequest) (*darajaport.AsyncAccept, error) {
	f.reverseCalls++
	f.lastRequest = req
	return f.accept, f.err
}

func (f *fakeClient) GenerateQR(context.Context, darajaport.QRRequest) (*darajaport.QRResult, error) {
	return nil, nil
}

type fakeReversalRepo struct {
	records []*entity.Reversal
}

func (r *fakeReversalRepo) Kind() entity.TransactionKind { return entity.KindReversal }

func (r *fakeReversalRepo) Create(ctx context.Context, reversal *entity.Reversal) error {
	r.records = append(r.records, reversal)
	return nil
}

func (r *fakeReversalRepo) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Reversal, error) {
	for _, rec := range r.records {
		if rec.TransactionID == transactionID {
			return rec, nil
		}
	}
	return nil, errs.ErrTransactionNotFound
}

func (r *fakeReversalRepo) ApplyResult(context.Context, entity.AsyncResult) (bool, error) {
	return false, nil
}

func (r *fakeReversalRepo) ApplyTimeout(context.Context, string, *int, string) (bool, error) {
	return false, nil
}

func newTestService(client *fakeClient) (*Service, *fakeReversalRepo) {
	repo := &fakeReversalRepo{}
	clock := &fixedClock{now: time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)}
	return NewService(client, repo, clock, nopLogger{}), repo
}

func TestReverse(t *testing.T) {
	ctx := context.Background()
	accept := &darajaport.AsyncAccept{
		ConversationID:           "AG_1",
		OriginatorConversationID: "orig_1",
	}

	t.Run("stores pending reversal", func(t *testing.T) {
		client := &fakeClient{accept: accept}
		svc, repo := newTestService(client)

		record, err := svc.Reverse(ctx, Request{
			TransactionID: "SGH12ZZ9W1",
			Amount:        150,
			ReceiverParty: "600998",
			Remarks:       "Wrong recipient",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, client.reverseCalls)
		assert.Equal(t, int64(150), client.lastRequest.Amount)
		assert.Equal(t, "AG_1", record.ConversationID)
		assert.Equal(t, entity.StatusPending, record.Status)
		assert.Len(t, repo.records, 1)
	})

	t.Run("sub-shilling amounts are accepted", func(t *testing.T) {
		client := &fakeClient{accept: accept}
		svc, _ := newTestService(client)

		record, err := svc.Reverse(ctx, Request{
			TransactionID: "SGH12ZZ9W1",
			Amount:        0.5,
			ReceiverParty: "600998",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(50), record.AmountCents)
	})

	t.Run("validation failures never reach the vendor", func(t *testing.T) {
		cases := []struct {
			name string
			req  Request
			want error
		}{
			{"missing transaction id", Request{Amount: 150, ReceiverParty: "600998"}, errs.ErrMissingField},
			{"missing receiver party", Request{TransactionID: "SGH12ZZ9W1", Amount: 150}, errs.ErrMissingField},
			{"zero amount", Request{TransactionID: "SGH12ZZ9W1", Amount: 0, ReceiverParty: "600998"}, errs.ErrInvalidAmount},
			{"negative amount", Request{TransactionID: "SGH12ZZ9W1", Amount: -5, ReceiverParty: "600998"}, errs.ErrInvalidAmount},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				client := &fakeClient{accept: accept}
				svc, repo := newTestService(client)

				_, err := svc.Reverse(ctx, tc.req)
				assert.ErrorIs(t, err, tc.want)
				assert.Zero(t, client.reverseCalls)
				assert.Empty(t, repo.records)
			})
		}
	})

	t.Run("vendor rejection leaves no record", func(t *testing.T) {
		client := &fakeClient{err: errs.NewVendorRejection("Transaction reversal", "Transaction not found")}
		svc, repo := newTestService(client)

		_, err := svc.Reverse(ctx, Request{
			TransactionID: "SGH12ZZ9W1", Amount: 150, ReceiverParty: "600998",
		})
		assert.ErrorIs(t, err, errs.ErrVendorRejected)
		assert.Empty(t, repo.records)
	})
}
