package form

import (
	"encoding/json"
	"slices"
	"strings"
)

// ListField is an editable list of free-text entries. It always holds at
// least one slot, so the editor never renders an empty list.
type ListField struct {
	items []string
}

func NewListField(src []string) ListField {
	if len(src) == 0 {
		return ListField{items: []string{""}}
	}
	return ListField{items: slices.Clone(src)}
}

func (l *ListField) ensure() {
	if len(l.items) == 0 {
		l.items = []string{""}
	}
}

// Set replaces the entry at i. It reports false when i is out of range.
func (l *ListField) Set(i int, v string) bool {
	l.ensure()
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items[i] = v
	return true
}

// Append adds an empty slot at the end.
func (l *ListField) Append() {
	l.ensure()
	l.items = append(l.items, "")
}

// Remove drops the entry at i. Removing the only entry leaves one empty slot.
func (l *ListField) Remove(i int) bool {
	l.ensure()
	if i < 0 || i >= len(l.items) {
		return false
	}
	if len(l.items) == 1 {
		l.items[0] = ""
		return true
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

func (l ListField) Len() int { return max(len(l.items), 1) }

// Values returns every slot, including empty ones.
func (l ListField) Values() []string {
	if len(l.items) == 0 {
		return []string{""}
	}
	return slices.Clone(l.items)
}

// Clean returns the trimmed non-empty entries in order. The result is never
// nil so it encodes as [].
func (l ListField) Clean() []string {
	out := []string{}
	for _, v := range l.items {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (l ListField) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Values())
}

func (l *ListField) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = NewListField(items)
	return nil
}

// Optional trims s and returns nil when nothing is left.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
