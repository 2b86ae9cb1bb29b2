// Package httpclient is the HTTP transport shared by the model-server
// backends (pyannote diarization, whisper transcription, NLLB translation).
//
// A Client resolves request paths against a base URL, encodes JSON and
// multipart bodies, classifies non-2xx responses into typed errors, and can
// wrap every call in a circuit breaker. Retry is opt-in per request because
// inference calls are not retried by default.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "http://localhost:8388",
//	    Timeout:        5 * time.Minute,
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("pyannote"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/diarize",
//	    Body: &httpclient.MultipartBody{
//	        Files: []httpclient.FileField{{FieldName: "audio", FileName: "audio.wav", Data: wav}},
//	    },
//	})
package httpclient
