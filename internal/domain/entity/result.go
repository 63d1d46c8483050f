package entity

import (
	"encoding/json"
	"fmt"
)

// TransactionKind discriminates the conversation-keyed transaction kinds
// that share the result and timeout callbacks.
type TransactionKind string

const (
	KindB2C          TransactionKind = "b2c"
	KindB2B          TransactionKind = "b2b"
	KindBalanceQuery TransactionKind = "balance_query"
	KindStatusQuery  TransactionKind = "status_query"
	KindReversal     TransactionKind = "reversal"
)

// ResultParameter is one key/value pair from a Daraja ResultParameters list.
// Values may be strings or numbers depending on the key.
type ResultParameter struct {
	Key   string
	Value any
}

// Daraja result parameter keys extracted on success.
const (
	ParamTransactionID  = "TransactionID"
	ParamAccountBalance = "AccountBalance"
	ParamReceiptNo      = "ReceiptNo"
)

// AsyncResult is the normalized form of a result callback shared by
// B2C, B2B, balance, status-query, and reversal flows.
type AsyncResult struct {
	ConversationID           string
	OriginatorConversationID string
	ResultCode               int
	ResultDesc               string
	Parameters               []ResultParameter
}

// Status returns the terminal status this result implies.
func (r AsyncResult) Status() TransactionStatus {
	return StatusForResultCode(r.ResultCode)
}

// Parameter returns the string form of the named result parameter.
func (r AsyncResult) Parameter(key string) (string, bool) {
	for _, p := range r.Parameters {
		if p.Key == key {
			return stringifyValue(p.Value), true
		}
	}
	return "", false
}

// ParametersJSON serializes the raw parameter list for storage alongside a
// status-query record.
func (r AsyncResult) ParametersJSON() string {
	if len(r.Parameters) == 0 {
		return ""
	}
	data, err := json.Marshal(r.Parameters)
	if err != nil {
		return ""
	}
	return string(data)
}

func stringifyValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		// JSON numbers decode as float64; integral values lose the ".0"
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%v", value)
	default:
		return fmt.Sprintf("%v", v)
	}
}
