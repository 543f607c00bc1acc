package i18n

// Translator retrieves localized messages for generation error codes.
// data provides optional metadata to embed in the message (for example,
// "ref" or "path").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "unresolved_reference":
			return "参照先が存在しません"
		case "unsupported_reference":
			return "同一ドキュメント外への参照はサポートされません"
		case "cyclic_reference":
			return "参照が循環しています"
		case "no_matching_extractor":
			return "スキーマ形状を認識できません"
		case "unsupported_construct":
			return "サポートされないスキーマ構文です"
		}
	default: // "en"
		switch code {
		case "unresolved_reference":
			return "reference target does not exist"
		case "unsupported_reference":
			return "only same-document fragment references are supported"
		case "cyclic_reference":
			return "reference chain does not terminate"
		case "no_matching_extractor":
			return "no extractor recognizes this schema shape"
		case "unsupported_construct":
			return "unsupported schema construct"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
