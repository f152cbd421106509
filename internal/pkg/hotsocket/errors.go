package hotsocket

import "fmt"

// ErrorKind tags a classified upstream failure.
type ErrorKind string

const (
	KindTokenInvalid        ErrorKind = "token_invalid"
	KindTokenExpired        ErrorKind = "token_expired"
	KindDuplicateReference  ErrorKind = "duplicate_reference"
	KindNonNumericReference ErrorKind = "non_numeric_reference"
	KindMSISDNNonNumeric    ErrorKind = "msisdn_non_numeric"
	KindMSISDNMalformed     ErrorKind = "msisdn_malformed"
	KindBadProductCode      ErrorKind = "bad_product_code"
	KindBadNetworkCode      ErrorKind = "bad_network_code"
	KindBadCombination      ErrorKind = "bad_combination"
	KindUnclassified        ErrorKind = "unclassified"
)

// Recoverable reports whether the failure clears after a fresh login.
// Everything else is terminal.
func (k ErrorKind) Recoverable() bool {
	return k == KindTokenInvalid || k == KindTokenExpired
}

// StatusError is a non-success upstream status mapped onto the error
// taxonomy. The raw code and message are always preserved for the audit
// trail, including for codes we cannot classify.
type StatusError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hotsocket status %s (%s): %s", e.Code, e.Kind, e.Message)
}

// Classify maps an upstream status onto the error taxonomy. It returns
// nil for the success code.
func (c Codes) Classify(status, message string) *StatusError {
	if status == c.Success {
		return nil
	}

	kind := KindUnclassified
	switch status {
	case c.TokenInvalid:
		kind = KindTokenInvalid
	case c.TokenExpired:
		kind = KindTokenExpired
	case c.RefDuplicate:
		kind = KindDuplicateReference
	case c.RefNonNumeric:
		kind = KindNonNumericReference
	case c.MSISDNNonNum:
		kind = KindMSISDNNonNumeric
	case c.MSISDNMalformed:
		kind = KindMSISDNMalformed
	case c.ProductCodeBad:
		kind = KindBadProductCode
	case c.NetworkCodeBad:
		kind = KindBadNetworkCode
	case c.ComboBad:
		kind = KindBadCombination
	}

	return &StatusError{Kind: kind, Code: status, Message: message}
}
