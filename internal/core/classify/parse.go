package classify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// OutputKind distingue una respuesta interpretada de una conservada en bruto.
type OutputKind int

const (
	Structured OutputKind = iota + 1
	RawFallback
)

func (k OutputKind) String() string {
	switch k {
	case Structured:
		return "structured"
	case RawFallback:
		return "raw_fallback"
	default:
		return "unknown"
	}
}

// ModelOutput es el resultado de ParseModelOutput. Con Kind RawFallback solo
// Raw tiene contenido.
type ModelOutput struct {
	Kind    OutputKind
	Profile string
	Clues   []string
	Summary string
	Legal   []string
	Raw     string
}

type modelJSON struct {
	SuspectProfile string      `json:"suspect_profile"`
	Label          string      `json:"label"`
	Clues          flexStrings `json:"clues"`
	Summary        string      `json:"summary"`
	Legal          flexStrings `json:"legal"`
}

// flexStrings acepta una lista o un string suelto; los modelos no siempre
// respetan el tipo pedido.
type flexStrings []string

func (s *flexStrings) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var aux []any
		if err := json.Unmarshal(trimmed, &aux); err != nil {
			return err
		}
		out := make([]string, 0, len(aux))
		for _, item := range aux {
			var v string
			switch x := item.(type) {
			case string:
				v = x
			case nil:
				continue
			default:
				v = fmt.Sprint(x)
			}
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		*s = out
		return nil
	case '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		if single = strings.TrimSpace(single); single != "" {
			*s = flexStrings{single}
		} else {
			*s = nil
		}
		return nil
	default:
		return errors.New("expected a string or a list of strings")
	}
}

// ParseModelOutput interpreta la respuesta de un modelo en tres pasos: JSON
// estricto, luego el substring entre el primer '{' y el último '}', y si
// ambos fallan conserva el texto completo como RawFallback.
func ParseModelOutput(raw string) ModelOutput {
	if out, ok := parseObject(raw); ok {
		return out
	}
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start != -1 && end > start {
		if out, ok := parseObject(raw[start : end+1]); ok {
			return out
		}
	}
	return ModelOutput{Kind: RawFallback, Raw: raw}
}

func parseObject(s string) (ModelOutput, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return ModelOutput{}, false
	}
	var payload modelJSON
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return ModelOutput{}, false
	}
	profile := strings.TrimSpace(payload.SuspectProfile)
	if profile == "" {
		profile = strings.TrimSpace(payload.Label)
	}
	return ModelOutput{
		Kind:    Structured,
		Profile: profile,
		Clues:   []string(payload.Clues),
		Summary: strings.TrimSpace(payload.Summary),
		Legal:   []string(payload.Legal),
		Raw:     s,
	}, true
}
