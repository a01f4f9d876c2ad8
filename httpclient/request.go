package httpclient

import "net/http"

// Request is one outbound call.
type Request struct {
	Method string
	// Path is joined onto Config.BaseURL unless it is an absolute URL.
	Path string
	// Headers override Config.Headers key by key.
	Headers map[string]string
	Query   map[string]string
	// Body is an io.Reader, []byte, string or a value to encode as JSON.
	// Raw bodies such as audio should set Content-Type in Headers.
	Body any
	// Auth replaces Config.Auth for this call.
	Auth Auth
}

// Response is a fully read reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
