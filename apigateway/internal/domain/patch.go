package domain

import "encoding/json"

// Optional wraps a patch field. Set is true when the field was present in the
// request, even if its value is the zero value or JSON null.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// TaskPatch is a partial update. Only fields with Set == true are applied.
type TaskPatch struct {
	Title       Optional[string]   `json:"title"`
	Description Optional[string]   `json:"description"`
	DateTime    Optional[DateTime] `json:"dateTime"`
	Priority    Optional[Priority] `json:"priority"`
	Status      Optional[Status]   `json:"status"`
}

// IsEmpty reports whether the patch carries no field at all.
func (p TaskPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.DateTime.Set && !p.Priority.Set && !p.Status.Set
}

// Apply overwrites the fields of t that are present in the patch.
func (p TaskPatch) Apply(t *Task) {
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.DateTime.Set {
		t.DateTime = p.DateTime.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.Status.Set {
		t.Status = p.Status.Value
	}
}
