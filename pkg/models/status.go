package models

// SkipReason records why the crawler did not expand a URL
type SkipReason string

const (
	SkipReasonUnset         SkipReason = ""               // Zero value = unset/unknown
	SkipReasonVisited       SkipReason = "visited"        // URL already processed in this crawl
	SkipReasonDepthExceeded SkipReason = "depth_exceeded" // Frame deeper than the configured level
	SkipReasonInvalidURL    SkipReason = "invalid_url"    // Extracted link lacks scheme or host
)

// String implements fmt.Stringer for logging
func (r SkipReason) String() string {
	if r == "" {
		return "unset"
	}
	return string(r)
}
