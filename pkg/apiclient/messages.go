package apiclient

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported client locales.
var (
	English = language.English
	Arabic  = language.Arabic
)

var localeMatcher = language.NewMatcher([]language.Tag{English, Arabic})

const (
	msgNetworkFailure = "network_failure"
	msgUnexpected     = "unexpected_response"
	msgStudent        = "designation_student"
	msgParent         = "designation_parent"
)

var catalogEntries = map[language.Tag]map[string]string{
	English: {
		msgNetworkFailure: "Could not reach the server. Please check your connection and try again.",
		msgUnexpected:     "Something went wrong. Please try again later.",
		msgStudent:        "Student",
		msgParent:         "Parent",
	},
	Arabic: {
		msgNetworkFailure: "تعذر الوصول إلى الخادم. يرجى التحقق من اتصالك والمحاولة مرة أخرى.",
		msgUnexpected:     "حدث خطأ ما. يرجى المحاولة لاحقاً.",
		msgStudent:        "طالب",
		msgParent:         "ولي أمر",
	},
}

func init() {
	for tag, entries := range catalogEntries {
		for key, text := range entries {
			_ = message.SetString(tag, key, text)
		}
	}
}

// MatchLocale picks English or Arabic from an Accept-Language style string,
// falling back to English.
func MatchLocale(preferences string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(preferences)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, index, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return English
	}
	return []language.Tag{English, Arabic}[index]
}

func localize(locale language.Tag, key string) string {
	return message.NewPrinter(locale).Sprintf(key)
}

// isArabic reports whether locale is any Arabic variant, such as ar-EG.
func isArabic(locale language.Tag) bool {
	base, _ := locale.Base()
	arabic, _ := Arabic.Base()
	return base == arabic
}
