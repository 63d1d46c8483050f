package persistence

import (
	"context"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
)

// AsyncTransactionRepository is implemented by every conversation-keyed
// transaction kind that shares the vendor's result and timeout callbacks.
// The reconciler routes a callback through the registered repositories; at
// most one will match a given conversation id.
type AsyncTransactionRepository interface {
	// Kind identifies the transaction kind this repository stores.
	Kind() entity.TransactionKind

	// ApplyResult applies a terminal result to the record matching the
	// conversation id. matched reports whether such a record exists at all;
	// a record already in a terminal state stays untouched (idempotent
	// redelivery) but still counts as matched.
	ApplyResult(ctx context.Context, result entity.AsyncResult) (matched bool, err error)

	// ApplyTimeout marks the matching record TIMEOUT, conditional on it
	// still being PENDING.
	ApplyTimeout(ctx context.Context, conversationID string, resultCode *int, resultDesc string) (matched bool, err error)
}

// B2CRepository persists business-to-customer disbursements.
type B2CRepository interface {
	AsyncTransactionRepository
	Create(ctx context.Context, tx *entity.B2CTransaction) error
	ListRecent(ctx context.Context, limit int) ([]*entity.B2CTransaction, error)
}

// B2BRepository persists business-to-business payments.
type B2BRepository interface {
	AsyncTransactionRepository
	Create(ctx context.Context, tx *entity.B2BTransaction) error
	ListRecent(ctx context.Context, limit int) ([]*entity.B2BTransaction, error)
}

// BalanceQueryRepository persists account balance enquiries.
type BalanceQueryRepository interface {
	AsyncTransactionRepository
	Create(ctx context.Context, query *entity.BalanceQuery) error
}

// StatusQueryRepository persists transaction status enquiries.
type StatusQueryRepository interface {
	AsyncTransactionRepository
	Create(ctx context.Context, query *entity.StatusQuery) error
}

// ReversalRepository persists transaction reversals.
type ReversalRepository interface {
	AsyncTransactionRepository
	Create(ctx context.Context, reversal *entity.Reversal) error
	GetByTransactionID(ctx context.Context, transactionID string) (*entity.Reversal, error)
}

// QRCodeRepository persists generated QR codes. QR codes have no
// asynchronous lifecycle.
type QRCodeRepository interface {
	Create(ctx context.Context, qr *entity.QRCode) error
	ListRecent(ctx context.Context, limit int) ([]*entity.QRCode, error)
}
