package translation

import "strings"

// Language is a supported language.
type Language struct {
	// Name is the lower-case English name used by API callers.
	Name string `json:"name"`
	// Code is the NLLB-200 language code.
	Code string `json:"code"`
	// ISO is the ISO-639-1 code, used as a hint by speech recognizers.
	ISO string `json:"iso"`
}

// String returns the language name.
func (l Language) String() string { return l.Name }

// IsZero reports whether l is the zero Language.
func (l Language) IsZero() bool { return l.Code == "" }

// Default source and target languages.
var (
	Hindi   = Language{Name: "hindi", Code: "hin_Deva", ISO: "hi"}
	English = Language{Name: "english", Code: "eng_Latn", ISO: "en"}
)

var languages = []Language{
	Hindi,
	{Name: "marathi", Code: "mar_Deva", ISO: "mr"},
	{Name: "gujarati", Code: "guj_Gujr", ISO: "gu"},
	{Name: "bengali", Code: "ben_Beng", ISO: "bn"},
	{Name: "punjabi", Code: "pan_Guru", ISO: "pa"},
	{Name: "tamil", Code: "tam_Taml", ISO: "ta"},
	{Name: "telugu", Code: "tel_Telu", ISO: "te"},
	{Name: "malayalam", Code: "mal_Mlym", ISO: "ml"},
	{Name: "kannada", Code: "kan_Knda", ISO: "kn"},
	{Name: "oriya", Code: "ory_Orya", ISO: "or"},
	{Name: "assamese", Code: "asm_Beng", ISO: "as"},
	{Name: "urdu", Code: "urd_Arab", ISO: "ur"},
	{Name: "sanskrit", Code: "san_Deva", ISO: "sa"},
	English,
}

var byName, byCode = func() (map[string]Language, map[string]Language) {
	names := make(map[string]Language, len(languages))
	codes := make(map[string]Language, len(languages))
	for _, l := range languages {
		names[l.Name] = l
		codes[l.Code] = l
	}
	return names, codes
}()

// Languages returns the supported languages in table order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Lookup finds a language by name (case-insensitive, surrounding space
// ignored) or by exact NLLB code.
func Lookup(id string) (Language, bool) {
	if l, ok := byCode[strings.TrimSpace(id)]; ok {
		return l, true
	}
	l, ok := byName[strings.ToLower(strings.TrimSpace(id))]
	return l, ok
}

// ResolveLanguage returns the language named by id. When id is unknown it
// returns fallback and false.
func ResolveLanguage(id string, fallback Language) (Language, bool) {
	if l, ok := Lookup(id); ok {
		return l, true
	}
	return fallback, false
}
