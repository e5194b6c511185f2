package incident

import "strings"

// FieldKind names every shape an optional text field can take in a raw record.
type FieldKind int

const (
	// FieldAbsent means the key is not present.
	FieldAbsent FieldKind = iota
	// FieldNull means the key is present with a JSON null.
	FieldNull
	// FieldNonString means the value is a number, bool, map or slice.
	FieldNonString
	// FieldBlank means the value is a string containing only whitespace.
	FieldBlank
	// FieldText means the value is a string with visible content.
	FieldText
)

// String returns a lowercase name for the kind.
func (k FieldKind) String() string {
	switch k {
	case FieldAbsent:
		return "absent"
	case FieldNull:
		return "null"
	case FieldNonString:
		return "non-string"
	case FieldBlank:
		return "blank"
	case FieldText:
		return "text"
	default:
		return "unknown"
	}
}

// TextField is an optional text value with an explicit coercion rule:
// absent, null and non-string values read as the empty string; blank and
// text values read as the raw string.
type TextField struct {
	Kind  FieldKind
	Value string
}

// Text builds a TextField from a plain string.
func Text(s string) TextField {
	if strings.TrimSpace(s) == "" {
		return TextField{Kind: FieldBlank, Value: s}
	}
	return TextField{Kind: FieldText, Value: s}
}

// String applies the coercion rule.
func (f TextField) String() string {
	switch f.Kind {
	case FieldBlank, FieldText:
		return f.Value
	default:
		return ""
	}
}

// IsBlank reports whether the field carries no visible text.
func (f TextField) IsBlank() bool { return f.Kind != FieldText }

func classify(v any) TextField {
	switch s := v.(type) {
	case nil:
		return TextField{Kind: FieldNull}
	case string:
		return Text(s)
	default:
		return TextField{Kind: FieldNonString}
	}
}
