package solar

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases maps known alternate spellings to the canonical dataset entry.
// The Ý forms come from Windows-1254 payloads where İ arrives mis-decoded.
var aliases = map[string]string{
	"Istanbul":  "İstanbul",
	"Ýstanbul":  "İstanbul",
	"Izmir":     "İzmir",
	"Ýzmir":     "İzmir",
	"Sanliurfa": "Şanlıurfa",
	"Þanlýurfa": "Şanlıurfa",
	"Urfa":      "Şanlıurfa",
	"Diyarbakir": "Diyarbakır",
	"Eskisehir":  "Eskişehir",
	"Mugla":      "Muğla",
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases and removes diacritics so that "Izmir", "izmir" and
// "İzmir" compare equal. Dotless ı folds to i for the same reason.
func fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Map(func(r rune) rune {
		if r == 'ı' {
			return 'i'
		}
		return r
	}, folded)
}
