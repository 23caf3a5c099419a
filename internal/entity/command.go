package entity

type Language string

const (
	LanguageMalayalam Language = "ml"
	LanguageHindi     Language = "hi"
	LanguageGujarati  Language = "gu"
)

func SupportedLanguages() []Language {
	return []Language{LanguageMalayalam, LanguageHindi, LanguageGujarati}
}

func (l Language) IsSupported() bool {
	switch l {
	case LanguageMalayalam, LanguageHindi, LanguageGujarati:
		return true
	default:
		return false
	}
}

// Command is one entry of the actuator vocabulary. The catalog is closed:
// commands are defined once at startup and never mutated.
type Command struct {
	ID     int                 `json:"id"`
	Action string              `json:"action"`
	Labels map[Language]string `json:"labels"`
}
