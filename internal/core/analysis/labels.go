package analysis

import "strings"

// Label es una categoría de incidente.
type Label string

const (
	LabelPhishing      Label = "Phishing Attempt"
	LabelFinancial     Label = "Financial Fraud"
	LabelSpoofing      Label = "Caller/SMS Spoofing"
	LabelRansomware    Label = "Ransomware Attack"
	LabelHacking       Label = "System Hacking"
	LabelMalware       Label = "Malware Infection"
	LabelHarassment    Label = "Cyber Harassment/Extortion"
	LabelIdentityTheft Label = "Identity Theft"
	LabelDataBreach    Label = "Data Breach"
	LabelOther         Label = "Other / Unknown"

	// LabelUnknown es el resultado terminal cuando ni las reglas ni ningún
	// proveedor pudieron clasificar la evidencia. No forma parte de Categories.
	LabelUnknown Label = "Unknown"
)

// Categories es la taxonomía cerrada, en el orden en que se presenta a los modelos.
var Categories = []Label{
	LabelPhishing,
	LabelFinancial,
	LabelSpoofing,
	LabelRansomware,
	LabelHacking,
	LabelMalware,
	LabelHarassment,
	LabelIdentityTheft,
	LabelDataBreach,
	LabelOther,
}

// CategoryNames devuelve los nombres de Categories como strings.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// CanonicalLabel busca raw en la taxonomía ignorando mayúsculas y espacios.
func CanonicalLabel(raw string) (Label, bool) {
	needle := strings.Join(strings.Fields(raw), " ")
	if needle == "" {
		return "", false
	}
	for _, c := range Categories {
		if strings.EqualFold(string(c), needle) {
			return c, true
		}
	}
	return "", false
}

// IsCategory indica si l pertenece a la taxonomía cerrada.
func (l Label) IsCategory() bool {
	for _, c := range Categories {
		if c == l {
			return true
		}
	}
	return false
}

var legalReferences = map[Label][]string{
	LabelPhishing:      {"IT Act 2000 - Sec 66C (Identity Theft)", "IPC Sec 420 (Cheating & Fraud)"},
	LabelFinancial:     {"IT Act 2000 - Sec 66D (Cheating by Personation)", "IPC Sec 415/420 (Cheating)"},
	LabelSpoofing:      {"IT Act 2000 - Sec 66 (Computer-related Offenses)"},
	LabelRansomware:    {"IT Act 2000 - Sec 66F (Cyber Terrorism)", "IPC Sec 383 (Extortion)"},
	LabelHacking:       {"IT Act 2000 - Sec 66 (Unauthorized Access)", "IPC Sec 379 (Theft)"},
	LabelMalware:       {"IT Act 2000 - Sec 43 (Damage to Computer)", "Sec 66 (Computer Hacking)"},
	LabelHarassment:    {"IPC Sec 354D (Stalking)", "IPC Sec 503 (Criminal Intimidation)"},
	LabelIdentityTheft: {"IT Act 2000 - Sec 66C", "IPC Sec 419 (Impersonation)"},
	LabelDataBreach:    {"IT Act 2000 - Sec 72 (Breach of Confidentiality)", "Sec 43 (Unauthorized Access)"},
	LabelOther:         {"Further investigation required under IT Act & IPC"},
}

// LegalReferences devuelve las referencias legales asociadas a l. Las
// etiquetas fuera de la taxonomía usan las de LabelOther.
func LegalReferences(l Label) []string {
	refs, ok := legalReferences[l]
	if !ok {
		refs = legalReferences[LabelOther]
	}
	out := make([]string, len(refs))
	copy(out, refs)
	return out
}
