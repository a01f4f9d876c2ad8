package middleware

import (
	"net/http"

	"github.com/kbukum/voicekit/util"
)

const defaultMaxBodySize = 30 * 1024 * 1024

// BodySizeLimit caps request bodies at maxSize ("30MB", "512KB"). The
// audio size rule is checked separately by the transcribe handlers; this
// limit only protects the process.
func BodySizeLimit(maxSize string) Middleware {
	size := util.SizeOr(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
