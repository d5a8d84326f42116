package airtable

// Field accessors. Each takes an ordered candidate-key list — the
// legacy base mixes capitalized and lowercase field names, so every
// read probes the current key then the legacy one and falls back to a
// zero default. Numbers arrive as float64 from JSON decoding.

// Str returns the first string value found under keys, or "".
func (r Record) Str(keys ...string) string {
	for _, k := range keys {
		if v, ok := r.Fields[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// StrOr is Str with an explicit default.
func (r Record) StrOr(def string, keys ...string) string {
	if s := r.Str(keys...); s != "" {
		return s
	}
	return def
}

// Num returns the first numeric value found under keys, or 0.
func (r Record) Num(keys ...string) float64 {
	for _, k := range keys {
		if v, ok := r.Fields[k]; ok {
			switch n := v.(type) {
			case float64:
				return n
			case int:
				return float64(n)
			}
		}
	}
	return 0
}

// Int returns Num truncated to an int.
func (r Record) Int(keys ...string) int {
	return int(r.Num(keys...))
}

// Bool returns the first boolean value found under keys, or false.
func (r Record) Bool(keys ...string) bool {
	for _, k := range keys {
		if v, ok := r.Fields[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

// StrList returns the first list of strings found under keys. Linked
// record fields arrive as []any of record ids.
func (r Record) StrList(keys ...string) []string {
	for _, k := range keys {
		v, ok := r.Fields[k]
		if !ok {
			continue
		}
		items, ok := v.([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// FirstRef returns the first id of a linked-record field, or "". The
// store models single links as one-element arrays.
func (r Record) FirstRef(keys ...string) string {
	ids := r.StrList(keys...)
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// Attachment is the raw shape of one file in an attachment field.
type Attachment struct {
	URL          string
	Filename     string
	Width        int
	Height       int
	ThumbnailURL string
}

// Attachments parses the first attachment field found under keys.
func (r Record) Attachments(keys ...string) []Attachment {
	for _, k := range keys {
		v, ok := r.Fields[k]
		if !ok {
			continue
		}
		items, ok := v.([]any)
		if !ok {
			continue
		}
		out := make([]Attachment, 0, len(items))
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, parseAttachment(m))
		}
		return out
	}
	return nil
}

// FirstAttachment returns the first file of an attachment field, or nil.
func (r Record) FirstAttachment(keys ...string) *Attachment {
	atts := r.Attachments(keys...)
	if len(atts) == 0 {
		return nil
	}
	return &atts[0]
}

func parseAttachment(m map[string]any) Attachment {
	a := Attachment{}
	if s, ok := m["url"].(string); ok {
		a.URL = s
	}
	if s, ok := m["filename"].(string); ok {
		a.Filename = s
	}
	if n, ok := m["width"].(float64); ok {
		a.Width = int(n)
	}
	if n, ok := m["height"].(float64); ok {
		a.Height = int(n)
	}
	// Prefer the large thumbnail, fall back to small.
	if th, ok := m["thumbnails"].(map[string]any); ok {
		for _, size := range []string{"large", "small"} {
			if t, ok := th[size].(map[string]any); ok {
				if u, ok := t["url"].(string); ok && u != "" {
					a.ThumbnailURL = u
					break
				}
			}
		}
	}
	return a
}
