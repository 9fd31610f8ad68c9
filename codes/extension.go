package codes

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExtensionOracle derives the 8-character extension code from wall-clock
// time. The code changes once per minute and is fully predictable to anyone
// who knows the scheme, which makes it a soft throttle on extensions rather
// than a security boundary. The derivation is kept bit-for-bit compatible
// with the original service so existing clients keep working.
type ExtensionOracle struct{}

// CurrentCode returns the extension code valid for the minute containing now.
// The seed is the decimal concatenation of the zero-based month, day, hour
// and minute in local time, folded through a 32-bit signed rolling hash.
func (ExtensionOracle) CurrentCode(now time.Time) string {
	seed := fmt.Sprintf("%d%d%d%d", int(now.Month())-1, now.Day(), now.Hour(), now.Minute())

	var hash int32
	for _, c := range seed {
		hash = (hash << 5) - hash + int32(c)
	}

	v := int64(hash)
	if v < 0 {
		v = -v
	}
	code := strings.ToUpper(strconv.FormatInt(v, 36))
	for len(code) < 8 {
		code = "0" + code
	}
	return code[:8]
}

// IsValid reports whether candidate matches the code for the minute
// containing now
func (o ExtensionOracle) IsValid(candidate string, now time.Time) bool {
	return candidate == o.CurrentCode(now)
}
