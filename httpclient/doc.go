// Package httpclient is the outbound HTTP client used by the provider
// clients: base URL and default headers, Bearer/scheme/API-key auth,
// status classification, and optional circuit breaking and rate limiting.
// It never retries.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Name:    "deepgram",
//	    BaseURL: "https://api.deepgram.com/v1",
//	    Timeout: 120 * time.Second,
//	    Auth:    httpclient.SchemeAuth("Token", key),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method:  http.MethodPost,
//	    Path:    "/listen",
//	    Headers: map[string]string{"Content-Type": "audio/wav"},
//	    Body:    audio,
//	})
//	if err != nil {
//	    return httpclient.ProviderError("deepgram", err)
//	}
package httpclient
