package entity

// TransactionStatus defines the lifecycle states shared by every
// asynchronous M-Pesa transaction kind.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
	StatusTimeout TransactionStatus = "TIMEOUT"
)

// StatusActive is the only status a QR code ever has; it is created settled.
const StatusActive = "ACTIVE"

// IsTerminal reports whether no further automatic transition is defined
// out of this status.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusTimeout
}

// StatusForResultCode maps a vendor result code to the terminal status it
// implies. Code 0 means the underlying transaction completed.
func StatusForResultCode(resultCode int) TransactionStatus {
	if resultCode == 0 {
		return StatusSuccess
	}
	return StatusFailed
}
