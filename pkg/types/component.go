package types

import "strings"

// ComponentRecord is a single metric or dimension as returned by the CJA
// data-view API. The upstream field set evolves, so the record is an open
// key-value bag; unknown fields survive a load/save round trip untouched.
type ComponentRecord map[string]any

// Well-known record fields the diff engine reads by name.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldType        = "type"
	FieldSchemaPath  = "schemaPath"
)

// ID returns the record's id field, or "" when absent.
func (r ComponentRecord) ID() string {
	return r.StringField(FieldID)
}

// Name returns the record's name field, or "" when absent.
func (r ComponentRecord) Name() string {
	return r.StringField(FieldName)
}

// Title returns the record's title field, or "" when absent.
func (r ComponentRecord) Title() string {
	return r.StringField(FieldTitle)
}

// Type returns the record's type field, or "" when absent.
func (r ComponentRecord) Type() string {
	return r.StringField(FieldType)
}

// SchemaPath returns the record's schemaPath field, or "" when absent.
func (r ComponentRecord) SchemaPath() string {
	return r.StringField(FieldSchemaPath)
}

// StringField returns the named field as a string. Non-string values and
// missing keys both come back as "".
func (r ComponentRecord) StringField(key string) string {
	if r == nil {
		return ""
	}
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// DisplayName picks the best human-readable label for the record: name,
// then title, then the id itself.
func (r ComponentRecord) DisplayName() string {
	if name := strings.TrimSpace(r.Name()); name != "" {
		return name
	}
	if title := strings.TrimSpace(r.Title()); title != "" {
		return title
	}
	return r.ID()
}

// Clone creates a deep copy of the record.
func (r ComponentRecord) Clone() ComponentRecord {
	if r == nil {
		return nil
	}
	clone := make(ComponentRecord, len(r))
	for k, v := range r {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, nested := range val {
			m[k] = cloneValue(nested)
		}
		return m
	case ComponentRecord:
		return map[string]any(val.Clone())
	case []any:
		s := make([]any, len(val))
		for i, nested := range val {
			s[i] = cloneValue(nested)
		}
		return s
	default:
		return val
	}
}
