package network

// prefixMap maps MSISDN prefixes to carrier codes. Order matters: the
// first matching prefix wins, and the five-digit entries are placed so
// they are never shadowed by an overlapping four-digit one. Do not sort.
var prefixMap = []struct {
	prefix  string
	carrier string
}{
	{"2773", "MTN"},
	{"2778", "MTN"},
	{"27710", "MTN"},
	{"27717", "MTN"},
	{"27718", "MTN"},
	{"27719", "MTN"},
	{"2782", "VOD"},
	{"2772", "VOD"},
	{"2776", "VOD"},
	{"2779", "VOD"},
	{"27711", "VOD"},
	{"27712", "VOD"},
	{"27713", "VOD"},
	{"27714", "VOD"},
	{"27715", "VOD"},
	{"27716", "VOD"},
	{"2784", "CELLC"},
	{"2774", "CELLC"},
	{"27811", "8TA"},
	{"27812", "8TA"},
	{"27813", "8TA"},
	{"27814", "8TA"},
}

// Resolve returns the carrier code for an MSISDN, or ok=false when no
// prefix matches.
func Resolve(msisdn string) (carrier string, ok bool) {
	for _, m := range prefixMap {
		if len(msisdn) >= len(m.prefix) && msisdn[:len(m.prefix)] == m.prefix {
			return m.carrier, true
		}
	}
	return "", false
}
