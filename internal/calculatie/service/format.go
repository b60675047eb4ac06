package service

import (
	"fmt"
	"math"
	"strings"

	"groenportaal_backend/internal/calculatie/transport"
)

// standaardUrenPerDag is the workday length used for display formatting.
const standaardUrenPerDag = 8

// scopeLabels maps every known scope to its Dutch display label.
var scopeLabels = map[transport.Scope]string{
	transport.ScopeGrondwerk:        "Grondwerk",
	transport.ScopeBestrating:       "Bestrating",
	transport.ScopeBorders:          "Borders",
	transport.ScopeGras:             "Gras",
	transport.ScopeHoutwerk:         "Houtwerk",
	transport.ScopeWaterElektra:     "Water/elektra",
	transport.ScopeGrasOnderhoud:    "Gras onderhoud",
	transport.ScopeBordersOnderhoud: "Borders onderhoud",
	transport.ScopeHeggen:           "Heggen",
	transport.ScopeBomen:            "Bomen",
}

// ScopeLabel returns the display label for a scope. Unknown scopes get a
// best-effort label: underscores become spaces and the first letter is
// capitalized.
func ScopeLabel(scope transport.Scope) string {
	if label, ok := scopeLabels[scope]; ok {
		return label
	}
	tekst := strings.ReplaceAll(string(scope), "_", " ")
	if tekst == "" {
		return tekst
	}
	return strings.ToUpper(tekst[:1]) + tekst[1:]
}

// FormatUrenAlsDagen renders hours as a Dutch "dagen, uren" string using an
// 8-hour workday. Zero components are omitted: 10 -> "1 dag, 2 uur",
// 8 -> "1 dag", 3 -> "3 uur".
func FormatUrenAlsDagen(uren float64) string {
	if uren <= 0 {
		return "0 uur"
	}

	dagen := int(uren) / standaardUrenPerDag
	rest := uren - float64(dagen*standaardUrenPerDag)
	rest = math.Round(rest*10) / 10

	delen := make([]string, 0, 2)
	if dagen == 1 {
		delen = append(delen, "1 dag")
	} else if dagen > 1 {
		delen = append(delen, fmt.Sprintf("%d dagen", dagen))
	}
	if rest > 0 {
		delen = append(delen, fmt.Sprintf("%s uur", formatUren(rest)))
	}

	if len(delen) == 0 {
		return "0 uur"
	}
	return strings.Join(delen, ", ")
}

// FormatAfwijkingPercentage renders a signed percentage: "+20%", "-8%", "0%".
func FormatAfwijkingPercentage(percentage int) string {
	if percentage > 0 {
		return fmt.Sprintf("+%d%%", percentage)
	}
	return fmt.Sprintf("%d%%", percentage)
}

// formatUren drops a trailing ".0" so whole hours render as integers.
func formatUren(uren float64) string {
	tekst := fmt.Sprintf("%.1f", uren)
	return strings.TrimSuffix(tekst, ".0")
}
