package models

// Image describes the reference image that plot coordinates are normalized against.
type Image struct {
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Catalog is the whole persisted document: the image plus the ordered plots.
type Catalog struct {
	Image Image  `json:"image"`
	Plots []Plot `json:"plots"`
}

// Find returns the index of the plot with the given id.
func (c Catalog) Find(id string) (int, bool) {
	for i := range c.Plots {
		if c.Plots[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (c Catalog) Clone() Catalog {
	out := Catalog{Image: c.Image}
	if c.Plots != nil {
		out.Plots = make([]Plot, len(c.Plots))
		for i, p := range c.Plots {
			out.Plots[i] = p.Clone()
		}
	}
	return out
}
