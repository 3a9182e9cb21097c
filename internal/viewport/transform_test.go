package viewport

import (
	"math"
	"testing"
)

const eps = 1e-6

func near(a, b float64) bool { return math.Abs(a-b) <= eps }

func TestFitCentersAndClamps(t *testing.T) {
	cases := []struct {
		name      string
		container Size
		image     Size
		want      State
	}{
		{"landscape", Size{W: 800, H: 600}, Size{W: 1000, H: 800}, State{Scale: 0.75, TX: 25, TY: 0}},
		{"upscale capped", Size{W: 1000, H: 1000}, Size{W: 100, H: 100}, State{Scale: 2, TX: 400, TY: 400}},
		{"downscale floored", Size{W: 100, H: 100}, Size{W: 1000, H: 1000}, State{Scale: 0.35, TX: -125, TY: -125}},
	}
	for _, tc := range cases {
		got, ok := Fit(tc.container, tc.image)
		if !ok {
			t.Fatalf("%s: fit reported not ok", tc.name)
		}
		if !near(got.Scale, tc.want.Scale) || !near(got.TX, tc.want.TX) || !near(got.TY, tc.want.TY) {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestFitIsIdempotent(t *testing.T) {
	c, img := Size{W: 1280, H: 720}, Size{W: 4000, H: 2600}
	a, _ := Fit(c, img)
	b, _ := Fit(c, img)
	if a != b {
		t.Fatalf("fit not idempotent: %+v vs %+v", a, b)
	}
}

func TestFitEmptySizes(t *testing.T) {
	if _, ok := Fit(Size{}, Size{W: 10, H: 10}); ok {
		t.Fatal("empty container should not fit")
	}
	if _, ok := Fit(Size{W: 10, H: 10}, Size{W: 10}); ok {
		t.Fatal("empty image should not fit")
	}
	if _, ok := Fit(Size{W: math.NaN(), H: 10}, Size{W: 10, H: 10}); ok {
		t.Fatal("NaN container should not fit")
	}
}

func TestZoomAtKeepsAnchorStable(t *testing.T) {
	starts := []State{
		{Scale: 1, TX: 0, TY: 0},
		{Scale: 0.35, TX: -120.5, TY: 33},
		{Scale: 2.7, TX: 410, TY: -980.25},
		{Scale: 6, TX: 12, TY: 12},
	}
	anchors := []Point{{0, 0}, {640, 360}, {-50, 900}, {1279.5, 0.25}}
	targets := []float64{MinScale, 0.5, 1, 1.14, 3.3, MaxScale}

	for _, s := range starts {
		for _, p := range anchors {
			before := ScreenToImage(s, p)
			for _, next := range targets {
				after := ScreenToImage(ZoomAt(s, next, p), p)
				if !near(before.X, after.X) || !near(before.Y, after.Y) {
					t.Fatalf("anchor drifted: start %+v anchor %+v scale %v: %+v -> %+v", s, p, next, before, after)
				}
			}
		}
	}
}

func TestZoomAtSetsScale(t *testing.T) {
	got := ZoomAt(State{Scale: 1}, 2, Point{X: 100, Y: 50})
	want := State{Scale: 2, TX: -100, TY: -50}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	degenerate := State{Scale: 0}
	if ZoomAt(degenerate, 2, Point{}) != degenerate {
		t.Fatal("zero scale state should be left untouched")
	}
}

func TestZoomByStep(t *testing.T) {
	c := Size{W: 800, H: 600}
	s := State{Scale: 1}

	in, ok := ZoomByStep(s, c, ZoomIn)
	if !ok || !near(in.Scale, ZoomStep) {
		t.Fatalf("zoom in: %+v %v", in, ok)
	}
	centre := ScreenToImage(s, c.Center())
	if got := ScreenToImage(in, c.Center()); !near(got.X, centre.X) || !near(got.Y, centre.Y) {
		t.Fatalf("centre moved: %+v -> %+v", centre, got)
	}

	out, _ := ZoomByStep(in, c, ZoomOut)
	if !near(out.Scale, 1) {
		t.Fatalf("zoom out should invert zoom in: %v", out.Scale)
	}

	top, _ := ZoomByStep(State{Scale: 5.9}, c, ZoomIn)
	if top.Scale != MaxScale {
		t.Fatalf("expected clamp to %v, got %v", MaxScale, top.Scale)
	}
	bottom, _ := ZoomByStep(State{Scale: 0.36}, c, ZoomOut)
	if bottom.Scale != MinScale {
		t.Fatalf("expected clamp to %v, got %v", MinScale, bottom.Scale)
	}

	if _, ok := ZoomByStep(s, Size{}, ZoomIn); ok {
		t.Fatal("empty container should be a no-op")
	}
}

func TestZoomByWheel(t *testing.T) {
	s := State{Scale: 1}
	if got := ZoomByWheel(s, -100, Point{}); !near(got.Scale, 1.15) {
		t.Fatalf("wheel up: %v", got.Scale)
	}
	if got := ZoomByWheel(s, 100, Point{}); !near(got.Scale, 0.85) {
		t.Fatalf("wheel down: %v", got.Scale)
	}
	if got := ZoomByWheel(s, 5000, Point{}); got.Scale != MinScale {
		t.Fatalf("wheel clamp: %v", got.Scale)
	}
}

func TestPanIsUnbounded(t *testing.T) {
	s := State{Scale: 1.5, TX: 10, TY: 20}
	g := BeginPan(s, Point{X: 100, Y: 100})

	got := g.At(s, Point{X: 5100, Y: -4900})
	if got.TX != 5010 || got.TY != -4980 || got.Scale != 1.5 {
		t.Fatalf("unexpected pan: %+v", got)
	}
}

func TestScreenToNormalized(t *testing.T) {
	img := Size{W: 1000, H: 800}

	n, ok := ScreenToNormalized(State{Scale: 1}, img, Point{X: 500, Y: 400})
	if !ok || !near(n.X, 0.5) || !near(n.Y, 0.5) {
		t.Fatalf("centre: %+v %v", n, ok)
	}

	s := State{Scale: 2, TX: 100, TY: -50}
	p := Project(s, img, Point{X: 0.3, Y: 0.7})
	n, _ = ScreenToNormalized(s, img, p)
	if !near(n.X, 0.3) || !near(n.Y, 0.7) {
		t.Fatalf("round trip: %+v", n)
	}

	n, _ = ScreenToNormalized(State{Scale: 1}, img, Point{X: -40, Y: 5000})
	if n.X != 0 || n.Y != 1 {
		t.Fatalf("not clamped: %+v", n)
	}

	if _, ok := ScreenToNormalized(State{Scale: 1}, Size{}, Point{}); ok {
		t.Fatal("empty image should not convert")
	}
}

func TestLabelScale(t *testing.T) {
	cases := map[float64]float64{0.35: 2.4, 0.5: 1.7, 1: 0.9, 6: 0.9}
	for in, want := range cases {
		if got := LabelScale(in); !near(got, want) {
			t.Fatalf("LabelScale(%v) = %v, want %v", in, got, want)
		}
	}
}
