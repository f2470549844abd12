package utils

import (
	"strconv"
	"time"
)

// -----------------------------------------------------------------------------

// presentationZone is the fixed display zone for API and broadcast output.
var presentationZone = time.FixedZone("IST", 5*3600+30*60)

// -----------------------------------------------------------------------------

// FormatTimestamp renders an epoch-ms timestamp for presentation. Values
// that cannot be a real event time are passed through as raw milliseconds.
func FormatTimestamp(ms int64) string {
	if ms <= 0 {
		return strconv.FormatInt(ms, 10)
	}
	return time.UnixMilli(ms).In(presentationZone).Format("2006-01-02 15:04:05 MST")
}
