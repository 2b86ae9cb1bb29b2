// Package translation translates transcript text between the supported
// Indic languages and English.
//
// Languages are identified by name ("hindi") or by NLLB code ("hin_Deva").
// Unknown identifiers never fail a request: they resolve to the configured
// default (hindi for the source, english for the target) and the
// substitution is logged and reported on the Result.
//
// # Backends
//
//   - translation/nllb: NLLB-200 sidecar over HTTP
//   - translation/openai: OpenAI chat completions
package translation
