package protocol

// TransactionStatus is the one-byte payload of a ReadyForCommand frame.
type TransactionStatus byte

const (
	TransactionIdle TransactionStatus = iota
	TransactionActive
	TransactionInTransaction
	TransactionInError
	TransactionUnknown
)

// ParseTransactionStatus decodes the wire byte of a ReadyForCommand frame.
// Unknown bytes map to TransactionUnknown rather than erroring: a status
// byte cannot invalidate an otherwise well-formed frame.
func ParseTransactionStatus(b byte) TransactionStatus {
	switch b {
	case 'I':
		return TransactionIdle
	case 'T':
		return TransactionInTransaction
	case 'E':
		return TransactionInError
	default:
		return TransactionUnknown
	}
}

func (s TransactionStatus) String() string {
	switch s {
	case TransactionIdle:
		return "Idle"
	case TransactionActive:
		return "Active"
	case TransactionInTransaction:
		return "InTransaction"
	case TransactionInError:
		return "InError"
	default:
		return "Unknown"
	}
}
