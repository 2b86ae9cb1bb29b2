// Package diarization answers "who spoke when" for a canonical waveform.
//
// Backends implement Provider and are built from configuration through a
// provider.Registry. The Diarizer wraps whichever backend is selected and
// normalizes its output: turns are ordered by start time, invalid spans
// and backend failures become INFERENCE_ERROR with stage "diarization".
//
// # Backends
//
//   - diarization/pyannote: pyannote sidecar over HTTP
//   - diarization/assemblyai: AssemblyAI speaker labels
package diarization
