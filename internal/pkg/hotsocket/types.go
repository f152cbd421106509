package hotsocket

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Code is an upstream status code. Hotsocket is inconsistent about
// quoting numeric codes, so both "887" and 887 decode to the same value.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Code(n.String())
	return nil
}

func (c Code) String() string { return string(c) }

// envelope is the generic Hotsocket reply wrapper. Operation-specific
// fields are simply absent for the operations that do not return them.
type envelope struct {
	Response struct {
		Status           Code        `json:"status"`
		Message          string      `json:"message"`
		Token            string      `json:"token"`
		RunningBalance   json.Number `json:"running_balance"`
		HotsocketRef     Code        `json:"hotsocket_ref"`
		RechargeStatusCd json.Number `json:"recharge_status_cd"`
		// Yes, with a space. That is the field Hotsocket sends.
		RechargeStatus string `json:"recharge status"`
	} `json:"response"`
}

// LoginResult carries the outcome of a login call.
type LoginResult struct {
	Status  string
	Message string
	Token   string
}

// BalanceResult carries the outcome of a balance query.
type BalanceResult struct {
	Status         string
	Message        string
	RunningBalance int64
}

// SubmitRequest is one recharge submission.
type SubmitRequest struct {
	Token        string
	MSISDN       string
	ProductCode  string
	Denomination int64 // cents
	NetworkCode  string
	Reference    string
}

// SubmitResult carries the outcome of a recharge submission.
type SubmitResult struct {
	Status       string
	Message      string
	HotsocketRef string
}

// StatusResult carries the outcome of a status query. SettlementCode is
// upstream's own recharge_status_cd; RechargeStatus is its text form,
// only populated on declared failures.
type StatusResult struct {
	Status         string
	Message        string
	SettlementCode int
	RechargeStatus string
	RunningBalance int64
}

func numberToInt64(n json.Number) int64 {
	if n == "" {
		return 0
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return 0
		}
		return int64(f)
	}
	return v
}
