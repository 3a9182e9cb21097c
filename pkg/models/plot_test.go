package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPlotPreservesUnknownFields(t *testing.T) {
	in := `{"id":"A1","label":"A1","status":"sold","x":0.25,"y":0.75,"facing":"north","tags":["corner",1]}`

	var p Plot
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != "A1" || p.Status != StatusSold || p.X != 0.25 || p.Y != 0.75 {
		t.Fatalf("unexpected plot: %+v", p)
	}
	if len(p.Details) != 2 {
		t.Fatalf("expected 2 detail fields, got %d", len(p.Details))
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"facing":"north"`) {
		t.Fatalf("facing lost: %s", s)
	}
	if !strings.Contains(s, `"tags":["corner",1]`) {
		t.Fatalf("tags lost: %s", s)
	}
	if !strings.HasSuffix(s, "}") || strings.Count(s, `"id"`) != 1 {
		t.Fatalf("malformed output: %s", s)
	}
}

func TestPlotWithoutDetailsHasNoTrailingKeys(t *testing.T) {
	p := Plot{ID: "B2", Label: "B2", Status: StatusAvailable, X: 1, Y: 0}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"B2","label":"B2","status":"available","x":1,"y":0}`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}

func TestCloneDetachesDetails(t *testing.T) {
	c := Catalog{Plots: []Plot{{ID: "A", Details: map[string]json.RawMessage{"k": json.RawMessage(`1`)}}}}
	cp := c.Clone()
	cp.Plots[0].Details["k"] = json.RawMessage(`2`)
	cp.Plots[0].X = 0.5

	if string(c.Plots[0].Details["k"]) != "1" || c.Plots[0].X != 0 {
		t.Fatal("clone shares state with original")
	}
	if i, ok := cp.Find("A"); !ok || i != 0 {
		t.Fatalf("find: %d %v", i, ok)
	}
	if _, ok := cp.Find("missing"); ok {
		t.Fatal("expected missing plot")
	}
}

func TestDisplayFallbacks(t *testing.T) {
	p := Plot{Label: "C3"}
	if p.DisplayName() != "Villa C3" || p.DisplayType() != "Type" {
		t.Fatalf("fallbacks: %q %q", p.DisplayName(), p.DisplayType())
	}
	if StatusReserved.Label() != "Reserved" || PlotStatus("x").Valid() {
		t.Fatal("status metadata")
	}
}

func TestPlotKeepsDescriptiveFieldsVerbatim(t *testing.T) {
	in := `{"id":"A","label":"A","status":"available","x":0.1,"y":0.1,"bathrooms":3.5,"bedrooms":0,"description":"","name":""}`

	var p Plot
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := p.Number(KeyBathrooms); !ok || v != 3.5 {
		t.Fatalf("bathrooms = %v %v", v, ok)
	}
	if v, ok := p.Number(KeyBedrooms); !ok || v != 0 {
		t.Fatalf("bedrooms = %v %v", v, ok)
	}
	if p.DisplayName() != "Villa A" {
		t.Fatalf("empty name should fall back: %q", p.DisplayName())
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("got %s, want %s", out, in)
	}
}

func TestPlotAccessorsIgnoreOtherShapes(t *testing.T) {
	p := Plot{Details: map[string]json.RawMessage{
		KeyName:      json.RawMessage(`"Palm Villa"`),
		KeyType:      json.RawMessage(`4`),
		KeyAreaSqft:  json.RawMessage(`"4,200"`),
		KeyBedrooms:  json.RawMessage(`null`),
		KeyBathrooms: json.RawMessage(`2.5`),
	}}

	if p.DisplayName() != "Palm Villa" || p.DisplayType() != "Type" {
		t.Fatalf("display: %q %q", p.DisplayName(), p.DisplayType())
	}
	if _, ok := p.Number(KeyAreaSqft); ok {
		t.Fatal("string area read as a number")
	}
	if _, ok := p.Number(KeyBedrooms); ok {
		t.Fatal("null bedrooms read as a number")
	}
	if v, ok := p.Number(KeyBathrooms); !ok || v != 2.5 {
		t.Fatalf("bathrooms = %v %v", v, ok)
	}
	if p.Text(KeyDescription) != "" {
		t.Fatal("missing description should be empty")
	}
}
