package viewport

import (
	"context"
	"sync"

	"masterplan/pkg/models"
)

const (
	LoadErrorMessage = "Could not load the masterplan data."
	SaveErrorMessage = "Could not save positions. Please try again."

	// LabelRadius is the hit radius of a plot label in image pixels before
	// label scaling.
	LabelRadius = 14
)

// CatalogSource is the store as seen from the viewer.
type CatalogSource interface {
	Catalog(ctx context.Context) (models.Catalog, error)
	SavePlots(ctx context.Context, plots []models.Plot) (models.Catalog, error)
}

type Gesture int

const (
	GestureNone Gesture = iota
	GesturePan
	GestureDrag
)

// Label is everything a renderer needs to draw one plot marker.
type Label struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Status   models.PlotStatus `json:"status"`
	At       Point             `json:"at"`    // screen point of the plot anchor
	Scale    float64           `json:"scale"` // label counter-scale
	Selected bool              `json:"selected"`
	Dragging bool              `json:"dragging"`
}

// Engine owns the viewer's local copy of the catalog and all gesture state.
// Gesture methods never block on I/O; Load and Save are the only calls that
// wait on the CatalogSource.
type Engine struct {
	mu sync.Mutex

	src   CatalogSource
	admin bool

	container Size
	state     State
	fitted    bool

	catalog *models.Catalog
	plots   []models.Plot
	dirty   bool
	edits   uint64 // bumped on every local position change

	pan      *PanGesture
	dragging string
	dragged  bool // the current drag moved its plot
	selected string

	loading bool
	err     string
	closed  bool
}

func NewEngine(src CatalogSource, admin bool) *Engine {
	return &Engine{src: src, admin: admin, state: Identity}
}

// Load fetches the catalog. A failure leaves a banner message and any
// previously loaded plots in place.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.loading = true
	e.err = ""
	e.mu.Unlock()

	cat, err := e.src.Catalog(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.loading = false
	if err != nil {
		e.err = LoadErrorMessage
		return err
	}
	e.setCatalogLocked(cat, true)
	return nil
}

// Save submits the local plots. Saves may overlap; each response replaces the
// local catalog. Edits made while a save was in flight stay local and dirty.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.closed || !e.admin || e.catalog == nil {
		e.mu.Unlock()
		return nil
	}
	e.err = ""
	plots := clonePlots(e.plots)
	gen := e.edits
	e.mu.Unlock()

	cat, err := e.src.SavePlots(ctx, plots)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	if err != nil {
		e.err = SaveErrorMessage
		return err
	}
	e.setCatalogLocked(cat, e.edits == gen)
	return nil
}

// Close detaches the engine. Results of in-flight loads and saves are dropped.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.pan = nil
	e.dragging = ""
	e.mu.Unlock()
}

func (e *Engine) setCatalogLocked(cat models.Catalog, replacePlots bool) {
	newImage := e.catalog == nil || e.catalog.Image != cat.Image
	c := cat.Clone()
	e.catalog = &c

	if replacePlots {
		e.plots = clonePlots(cat.Plots)
		e.dirty = false
		if e.dragging != "" {
			if _, ok := c.Find(e.dragging); !ok {
				e.dragging = ""
			}
		}
	}
	if newImage {
		e.fitted = false
		e.fitLocked()
	}
}

func (e *Engine) fitLocked() bool {
	if e.catalog == nil {
		return false
	}
	s, ok := Fit(e.container, imageSize(e.catalog.Image))
	if !ok {
		return false
	}
	e.state = s
	e.fitted = true
	return true
}

// Resize records the container size. The first non-empty size after a
// catalog arrives triggers the initial fit.
func (e *Engine) Resize(container Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.container = container
	if !e.fitted {
		e.fitLocked()
	}
}

// Reset refits the image to the container.
func (e *Engine) Reset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fitLocked()
}

func (e *Engine) ZoomIn() bool  { return e.zoomStep(ZoomIn) }
func (e *Engine) ZoomOut() bool { return e.zoomStep(ZoomOut) }

func (e *Engine) zoomStep(dir Direction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog == nil {
		return false
	}
	s, ok := ZoomByStep(e.state, e.container, dir)
	if ok {
		e.state = s
	}
	return ok
}

// Wheel zooms about the pointer position.
func (e *Engine) Wheel(deltaY float64, anchor Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog == nil || e.container.Empty() {
		return false
	}
	e.state = ZoomByWheel(e.state, deltaY, anchor)
	return true
}

// ZoomTo zooms to an absolute scale about anchor.
func (e *Engine) ZoomTo(scale float64, anchor Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog == nil || e.container.Empty() {
		return false
	}
	e.state = ZoomAt(e.state, ClampScale(scale), anchor)
	return true
}

// Key handles the keyboard zoom shortcuts.
func (e *Engine) Key(key string) bool {
	switch key {
	case "+", "=":
		return e.ZoomIn()
	case "-", "_":
		return e.ZoomOut()
	}
	return false
}

// PointerDown starts a drag when an admin presses on a label, otherwise a
// pan. Pressing a label in view mode starts nothing; the release is a click.
func (e *Engine) PointerDown(p Point) Gesture {
	if id, ok := e.HitTest(p); ok {
		if e.BeginDrag(id) {
			return GestureDrag
		}
		return GestureNone
	}
	if e.BeginPan(p) {
		return GesturePan
	}
	return GestureNone
}

func (e *Engine) PointerMove(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pan != nil {
		e.state = e.pan.At(e.state, p)
	}
	e.dragMoveLocked(p)
}

// PointerUp ends whichever gesture is active.
func (e *Engine) PointerUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pan = nil
	e.dragging = ""
}

func (e *Engine) PointerCancel() { e.PointerUp() }

func (e *Engine) BeginPan(p Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.dragging != "" {
		return false
	}
	g := BeginPan(e.state, p)
	e.pan = &g
	return true
}

func (e *Engine) EndPan() {
	e.mu.Lock()
	e.pan = nil
	e.mu.Unlock()
}

// BeginDrag puts the engine in the dragging state for id. Only admins drag,
// and a drag cannot start while a pan is active.
func (e *Engine) BeginDrag(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.admin || e.catalog == nil || e.pan != nil {
		return false
	}
	if indexOf(e.plots, id) < 0 {
		return false
	}
	e.dragging = id
	e.dragged = false
	return true
}

// DragMove moves the dragged plot under p. It is a no-op when idle.
func (e *Engine) DragMove(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragMoveLocked(p)
}

func (e *Engine) dragMoveLocked(p Point) {
	if e.dragging == "" || e.catalog == nil || e.container.Empty() {
		return
	}
	n, ok := ScreenToNormalized(e.state, imageSize(e.catalog.Image), p)
	if !ok {
		return
	}
	i := indexOf(e.plots, e.dragging)
	if i < 0 {
		return
	}
	e.plots[i].X, e.plots[i].Y = n.X, n.Y
	e.dirty = true
	e.dragged = true
	e.edits++
}

func (e *Engine) EndDrag() {
	e.mu.Lock()
	e.dragging = ""
	e.mu.Unlock()
}

// Click selects the plot under p for the details panel. A click that ends
// a drag which moved the plot does not select it.
func (e *Engine) Click(p Point) bool {
	id, ok := e.HitTest(p)
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.admin && e.dragged && (e.dragging == "" || e.dragging == id) {
		e.dragged = false
		return false
	}
	e.selected = id
	return true
}

func (e *Engine) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if indexOf(e.plots, id) < 0 {
		return false
	}
	e.selected = id
	return true
}

func (e *Engine) Deselect() {
	e.mu.Lock()
	e.selected = ""
	e.mu.Unlock()
}

// Selected returns the plot shown in the details panel.
func (e *Engine) Selected() (models.Plot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := indexOf(e.plots, e.selected)
	if i < 0 {
		return models.Plot{}, false
	}
	return e.plots[i].Clone(), true
}

// HitTest returns the topmost plot whose label covers p.
func (e *Engine) HitTest(p Point) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog == nil || !(e.state.Scale > 0) {
		return "", false
	}
	img := imageSize(e.catalog.Image)
	r := LabelRadius * e.state.Scale * LabelScale(e.state.Scale)
	for i := len(e.plots) - 1; i >= 0; i-- {
		at := Project(e.state, img, Point{X: e.plots[i].X, Y: e.plots[i].Y})
		dx, dy := p.X-at.X, p.Y-at.Y
		if dx*dx+dy*dy <= r*r {
			return e.plots[i].ID, true
		}
	}
	return "", false
}

// Labels is the render snapshot for the current state. It has no side effects.
func (e *Engine) Labels() []Label {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog == nil {
		return nil
	}
	img := imageSize(e.catalog.Image)
	scale := LabelScale(e.state.Scale)
	out := make([]Label, 0, len(e.plots))
	for _, p := range e.plots {
		out = append(out, Label{
			ID:       p.ID,
			Text:     p.Label,
			Status:   p.Status,
			At:       Project(e.state, img, Point{X: p.X, Y: p.Y}),
			Scale:    scale,
			Selected: p.ID == e.selected,
			Dragging: p.ID == e.dragging,
		})
	}
	return out
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Container() Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.container
}

// Catalog returns the last loaded or saved catalog.
func (e *Engine) Catalog() (models.Catalog, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.catalog == nil {
		return models.Catalog{}, false
	}
	return e.catalog.Clone(), true
}

// Plots returns the local, possibly unsaved, plots.
func (e *Engine) Plots() []models.Plot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return clonePlots(e.plots)
}

func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// CanSave mirrors the enabled state of the save button.
func (e *Engine) CanSave() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.admin && e.dirty
}

func (e *Engine) Admin() bool { return e.admin }

func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Error is the current banner text, empty when there is none.
func (e *Engine) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Engine) Dragging() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dragging, e.dragging != ""
}

func imageSize(img models.Image) Size {
	return Size{W: img.Width, H: img.Height}
}

func indexOf(plots []models.Plot, id string) int {
	if id == "" {
		return -1
	}
	for i := range plots {
		if plots[i].ID == id {
			return i
		}
	}
	return -1
}

func clonePlots(in []models.Plot) []models.Plot {
	if in == nil {
		return nil
	}
	out := make([]models.Plot, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
