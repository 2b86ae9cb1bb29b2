// Package api exposes the speech pipeline over HTTP.
//
// Every capability is reachable on its own (speech recognition, diarization,
// translation, transcript alignment) as well as through the combined
// pipeline endpoints. Audio is uploaded as the multipart field "file"
// except for /diarize/bytes, which takes the raw request body.
//
// Successful JSON responses use the server.DataResponse envelope. Failures
// are rendered from *errors.AppError, so the HTTP status follows the error
// code: DECODE_ERROR and INVALID_INPUT are 400, ALIGNMENT_ERROR is 422,
// INFERENCE_ERROR is 502 and SERVICE_UNAVAILABLE is 503.
//
// /full_pipeline/stream runs the same pipeline but reports progress as
// server-sent events; other clients can follow it on /pipeline/:id/events.
//
// Usage:
//
//	h, err := api.New(api.Deps{...})
//	if err != nil {
//	    return err
//	}
//	h.Register(srv.GinEngine())
package api
