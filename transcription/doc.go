// Package transcription converts canonical waveforms to text.
//
// Two modes are exposed by Transcriber: TranscribeText returns the flat
// transcript of a clip, TranscribeTimestamped returns time-stamped segments
// for transcript alignment. Backends implement Provider and are selected
// through a provider.Manager.
//
// # Backends
//
//   - transcription/whisper: faster-whisper sidecar over HTTP
//   - transcription/openai: OpenAI audio transcriptions API
package transcription
