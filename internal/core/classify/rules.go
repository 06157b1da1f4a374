package classify

import (
	"regexp"
	"strings"

	"evidence-lens/internal/core/analysis"
)

// Rule asocia un patrón de palabras clave a una categoría y su pista.
type Rule struct {
	Label   analysis.Label
	Pattern *regexp.Regexp
	Clue    string
}

// DefaultRules se evalúan en orden sobre el texto en minúsculas; gana la primera.
var DefaultRules = []Rule{
	{analysis.LabelPhishing, regexp.MustCompile(`\botp\b|password|login|bank|paypal`), "Suspicious credential-related request detected"},
	{analysis.LabelFinancial, regexp.MustCompile(`\bupi\b|wallet|transaction|money|payment`), "Suspicious financial terms detected"},
	{analysis.LabelSpoofing, regexp.MustCompile(`spoof|caller id|fake number|masking`), "Caller ID or number spoofing indicated"},
	{analysis.LabelRansomware, regexp.MustCompile(`ransom|bitcoin|encrypt|decrypt`), "Mentions of ransom or file encryption"},
	{analysis.LabelHacking, regexp.MustCompile(`hacked|compromise|breach|unauthorized`), "Signs of unauthorized access"},
	{analysis.LabelMalware, regexp.MustCompile(`malware|virus|trojan|spyware`), "Indicators of malware detected"},
	{analysis.LabelHarassment, regexp.MustCompile(`harass|threat|blackmail|abuse`), "Threatening or abusive language found"},
}

// MatchRules devuelve la primera regla que coincide con text. No evalúa
// ninguna regla posterior a la coincidencia.
func MatchRules(rules []Rule, text string) (Rule, bool) {
	if strings.TrimSpace(text) == "" {
		return Rule{}, false
	}
	lowered := strings.ToLower(text)
	for _, r := range rules {
		if r.Pattern.MatchString(lowered) {
			return r, true
		}
	}
	return Rule{}, false
}
