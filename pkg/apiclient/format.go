package apiclient

import (
	"fmt"
	"time"

	"github.com/tutorhub/tutorhub-backend/types"
	"golang.org/x/text/language"
)

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// DesignationLabel returns the display label for a designation. Unknown
// values are returned unchanged.
func DesignationLabel(d types.Designation, locale language.Tag) string {
	switch d {
	case types.DesignationStudent:
		return localize(locale, msgStudent)
	case types.DesignationParent:
		return localize(locale, msgParent)
	default:
		return string(d)
	}
}

// FormatDate renders a testimonial date the way the site shows it:
// "March 5, 2024" in English and "5 مارس 2024" in Arabic.
func FormatDate(t time.Time, locale language.Tag) string {
	if isArabic(locale) {
		return fmt.Sprintf("%d %s %d", t.Day(), arabicMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2, 2006")
}
