package hotsocket

import "github.com/gopherairtime/gopherairtime/internal/pkg/env"

// Codes is the closed set of upstream status codes. The values are
// configuration, not contract: Hotsocket can renumber them, so every
// code is overridable through the environment.
type Codes struct {
	Success         string
	TokenInvalid    string
	TokenExpired    string
	RefDuplicate    string
	RefNonNumeric   string
	MSISDNNonNum    string
	MSISDNMalformed string
	ProductCodeBad  string
	NetworkCodeBad  string
	ComboBad        string
}

// LoadCodes reads the status code taxonomy from the environment,
// falling back to the documented defaults.
func LoadCodes() Codes {
	return Codes{
		Success:         env.GetEnv("HS_CODE_SUCCESS", "0000"),
		TokenInvalid:    env.GetEnv("HS_CODE_TOKEN_INVALID", "887"),
		TokenExpired:    env.GetEnv("HS_CODE_TOKEN_EXPIRE", "889"),
		RefDuplicate:    env.GetEnv("HS_CODE_REF_DUPLICATE", "5013"),
		RefNonNumeric:   env.GetEnv("HS_CODE_REF_NON_NUM", "5014"),
		MSISDNNonNum:    env.GetEnv("HS_CODE_MSISDN_NON_NUM", "5010"),
		MSISDNMalformed: env.GetEnv("HS_CODE_MSISDN_MALFORMED", "5011"),
		ProductCodeBad:  env.GetEnv("HS_CODE_PRODUCT_CODE_BAD", "5012"),
		NetworkCodeBad:  env.GetEnv("HS_CODE_NETWORK_CODE_BAD", "5015"),
		ComboBad:        env.GetEnv("HS_CODE_COMBO_BAD", "5016"),
	}
}
