package catalog

import (
	"encoding/json"
	"math"

	"masterplan/pkg/models"
)

// Clamp01 pins a normalized coordinate into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finiteNumber reports whether raw is a JSON number (not null, not a string).
func finiteNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// MergeEdits applies partial plot objects onto plots and returns the new
// sequence in the original order plus the ids that were changed.
//
// Entries that are not objects, have no string id, or name an unknown plot
// are skipped. When several entries share an id the first one wins. Keys
// present in an entry overwrite the stored value, except x/y which are only
// taken when they are finite numbers and are clamped to [0,1].
func MergeEdits(plots []models.Plot, edits []json.RawMessage) ([]models.Plot, []string) {
	merged := make(map[string]models.Plot, len(edits))
	var order []string

	for _, raw := range edits {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			continue
		}
		id, ok := stringValue(obj["id"])
		if !ok {
			continue
		}
		if _, seen := merged[id]; seen {
			continue
		}

		var existing *models.Plot
		for i := range plots {
			if plots[i].ID == id {
				existing = &plots[i]
				break
			}
		}
		if existing == nil {
			continue
		}

		next, ok := mergePlot(*existing, obj)
		if !ok {
			continue
		}
		merged[id] = next
		order = append(order, id)
	}

	out := make([]models.Plot, len(plots))
	for i, p := range plots {
		if next, ok := merged[p.ID]; ok {
			out[i] = next
			continue
		}
		out[i] = p.Clone()
	}
	return out, order
}

func mergePlot(existing models.Plot, edit map[string]json.RawMessage) (models.Plot, bool) {
	base, err := json.Marshal(existing)
	if err != nil {
		return models.Plot{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return models.Plot{}, false
	}

	for k, v := range edit {
		if k == "x" || k == "y" {
			continue
		}
		fields[k] = v
	}

	b, err := json.Marshal(fields)
	if err != nil {
		return models.Plot{}, false
	}
	var next models.Plot
	if err := json.Unmarshal(b, &next); err != nil {
		// wrong shape for a modelled field, e.g. "label":5
		return models.Plot{}, false
	}

	next.ID = existing.ID
	next.X, next.Y = existing.X, existing.Y
	if x, ok := finiteNumber(edit["x"]); ok {
		next.X = Clamp01(x)
	}
	if y, ok := finiteNumber(edit["y"]); ok {
		next.Y = Clamp01(y)
	}
	return next, true
}
