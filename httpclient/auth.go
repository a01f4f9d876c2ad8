package httpclient

import "net/http"

// Auth attaches credentials to an outbound request. It runs after headers
// and query parameters have been set.
type Auth func(*http.Request)

// BearerAuth sends "Authorization: Bearer <token>" (Groq, OpenAI).
func BearerAuth(token string) Auth { return SchemeAuth("Bearer", token) }

// SchemeAuth sends "Authorization: <scheme> <token>", e.g. Deepgram's
// "Token" scheme.
func SchemeAuth(scheme, token string) Auth {
	return func(r *http.Request) { r.Header.Set("Authorization", scheme+" "+token) }
}

// HeaderAuth sends key in the named header.
func HeaderAuth(name, key string) Auth {
	return func(r *http.Request) { r.Header.Set(name, key) }
}

// QueryAuth sends key as the named query parameter (Gemini's "key").
func QueryAuth(name, key string) Auth {
	return func(r *http.Request) {
		q := r.URL.Query()
		q.Set(name, key)
		r.URL.RawQuery = q.Encode()
	}
}
