package model

import "time"

// millisThreshold separates seconds-scale epochs from milliseconds-scale ones.
// Values below it are treated as seconds. The heuristic is ambiguous for
// seconds-scale timestamps near 2001, but the API does not carry unit metadata,
// so there is nothing stricter to infer.
const millisThreshold = int64(1e12)

// UTCTime renders an epoch timestamp as an ISO-8601 UTC string with second
// precision, inferring the unit via millisThreshold.
func UTCTime(epoch int64) string {
	if epoch < millisThreshold {
		epoch *= 1000
	}
	return time.UnixMilli(epoch).UTC().Format("2006-01-02T15:04:05Z")
}

// FormatUpdateTime renders an optional updateTime, "N/A" when absent.
func FormatUpdateTime(ts *int64) string {
	if ts == nil {
		return "N/A"
	}
	return UTCTime(*ts)
}
