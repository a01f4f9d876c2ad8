package util

// MaskSecret keeps the first visible characters of an API key or DSN and
// hides the rest. Values no longer than visible are hidden entirely.
func MaskSecret(s string, visible int) string {
	const mask = "***"
	if len(s) <= visible {
		return mask
	}
	return s[:visible] + mask
}
