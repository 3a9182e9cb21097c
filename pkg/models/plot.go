package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

type PlotStatus string

const (
	StatusAvailable PlotStatus = "available"
	StatusReserved  PlotStatus = "reserved"
	StatusSold      PlotStatus = "sold"
)

// Statuses lists the known statuses in legend order.
var Statuses = []PlotStatus{StatusAvailable, StatusReserved, StatusSold}

func (s PlotStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

// Label is the human readable legend text for a status.
func (s PlotStatus) Label() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusReserved:
		return "Reserved"
	case StatusSold:
		return "Sold"
	}
	return string(s)
}

// Keys of the descriptive payload the viewer knows how to show. A plot with
// no name is shown as "Villa <label>".
const (
	KeyName         = "name"
	KeyType         = "type"
	KeyBlueprintSrc = "blueprintSrc"
	KeyAreaSqft     = "areaSqft"
	KeyBedrooms     = "bedrooms"
	KeyBathrooms    = "bathrooms"
	KeyDescription  = "description"
	KeyMapsURL      = "mapsUrl"
)

// Plot is one sellable unit placed on the masterplan image.
//
// X and Y are fractions of the reference image width/height and are kept
// inside [0,1] by every edit path. Every other key of the stored object
// (the descriptive fields included) is kept verbatim in Details and written
// back byte for byte, so zero values and hand-edited shapes survive a save.
type Plot struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`  // short tag, e.g. "A12"
	Status PlotStatus `json:"status"` // available | reserved | sold
	X      float64    `json:"x"`      // normalized [0,1]
	Y      float64    `json:"y"`      // normalized [0,1]

	Details map[string]json.RawMessage `json:"-"`
}

var plotKeys = map[string]struct{}{
	"id": {}, "label": {}, "status": {}, "x": {}, "y": {},
}

type plotAlias Plot

func (p Plot) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(plotAlias(p))
	if err != nil || len(p.Details) == 0 {
		return b, err
	}

	keys := make([]string, 0, len(p.Details))
	for k := range p.Details {
		if _, known := plotKeys[k]; known {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(p.Details[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Plot) UnmarshalJSON(data []byte) error {
	var fields plotAlias
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if _, known := plotKeys[k]; known {
			continue
		}
		if fields.Details == nil {
			fields.Details = make(map[string]json.RawMessage)
		}
		fields.Details[k] = append(json.RawMessage(nil), v...)
	}

	*p = Plot(fields)
	return nil
}

// Text returns a descriptive value when it is stored as a JSON string.
func (p Plot) Text(key string) string {
	raw, ok := p.Details[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Number returns a descriptive value when it is stored as a JSON number.
func (p Plot) Number(key string) (float64, bool) {
	raw, ok := p.Details[key]
	if !ok {
		return 0, false
	}
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return 0, false
	}
	return *f, true
}

// DisplayName mirrors how the masterplan labels a plot without a name.
func (p Plot) DisplayName() string {
	if name := p.Text(KeyName); name != "" {
		return name
	}
	return "Villa " + p.Label
}

func (p Plot) DisplayType() string {
	if typ := p.Text(KeyType); typ != "" {
		return typ
	}
	return "Type"
}

func (p Plot) Clone() Plot {
	out := p
	if p.Details != nil {
		out.Details = make(map[string]json.RawMessage, len(p.Details))
		for k, v := range p.Details {
			out.Details[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}
