package translation

// Request is one translation call. It is passed by value so a backend can
// never change the language pair of a concurrent call.
type Request struct {
	Text   string
	Source Language
	Target Language
}

// Result is the outcome of Translator.Translate. Source and Target are the
// languages actually used; the Fallback flags report that the caller's
// identifier was unknown and a default was substituted.
type Result struct {
	Text           string   `json:"translation"`
	Source         Language `json:"source"`
	Target         Language `json:"target"`
	SourceFallback bool     `json:"source_fallback,omitempty"`
	TargetFallback bool     `json:"target_fallback,omitempty"`
}
