package geom

import "testing"

func TestMinimizeVector(t *testing.T) {
	tests := []struct {
		name   string
		window Rect
		target Point
		want   Vector
	}{
		{
			name:   "toward dock tile",
			window: Rect{X: 100, Y: 100, Width: 600, Height: 400},
			target: Point{X: 500, Y: 900},
			want:   Vector{DX: 100, DY: 600},
		},
		{
			name:   "target at center",
			window: Rect{X: 0, Y: 0, Width: 200, Height: 100},
			target: Point{X: 100, Y: 50},
			want:   Vector{},
		},
		{
			name:   "up and left",
			window: Rect{X: 500, Y: 500, Width: 100, Height: 100},
			target: Point{X: 0, Y: 0},
			want:   Vector{DX: -550, DY: -550},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinimizeVector(tt.window.Center(), tt.target)
			if got != tt.want {
				t.Errorf("MinimizeVector() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultMinimizeTarget(t *testing.T) {
	got := DefaultMinimizeTarget(Size{Width: 1200, Height: 800})
	want := Point{X: 600, Y: 850}
	if got != want {
		t.Errorf("DefaultMinimizeTarget() = %+v, want %+v", got, want)
	}
}

func TestDragReanchor(t *testing.T) {
	tests := []struct {
		name     string
		grabbed  Rect
		pointer  Point
		restored Rect
		moved    Point
		want     Rect
	}{
		{
			name:     "grab in the middle of a full-width window",
			grabbed:  Rect{X: 0, Y: 0, Width: 1000, Height: 800},
			pointer:  Point{X: 500, Y: 10},
			restored: Rect{X: 200, Y: 100, Width: 600, Height: 400},
			moved:    Point{X: 520, Y: 30},
			want:     Rect{X: 220, Y: 20, Width: 600, Height: 400},
		},
		{
			name:     "grab near the right edge keeps the right-edge fraction",
			grabbed:  Rect{X: 0, Y: 0, Width: 1000, Height: 800},
			pointer:  Point{X: 900, Y: 5},
			restored: Rect{Width: 400, Height: 300},
			moved:    Point{X: 900, Y: 5},
			want:     Rect{X: 540, Y: 0, Width: 400, Height: 300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anchor := AnchorAt(tt.grabbed, tt.pointer)
			got := DragReanchor(tt.restored, tt.moved, anchor)
			if got != tt.want {
				t.Errorf("DragReanchor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAnchorAtZeroWidth(t *testing.T) {
	a := AnchorAt(Rect{Y: 10}, Point{X: 5, Y: 12})
	if a.RelX != 0 || a.OffsetY != 2 {
		t.Errorf("AnchorAt() = %+v, want RelX 0 OffsetY 2", a)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"already large enough", Rect{X: 1, Y: 2, Width: 400, Height: 300}, Rect{X: 1, Y: 2, Width: 400, Height: 300}},
		{"too narrow", Rect{Width: 10, Height: 300}, Rect{Width: 300, Height: 300}},
		{"too short", Rect{Width: 400, Height: 10}, Rect{Width: 400, Height: 200}},
		{"both", Rect{X: 5, Width: 1, Height: 1}, Rect{X: 5, Width: 300, Height: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in, 300, 200); got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{X: 10, Y: 10}, true},
		{Point{X: 14.9, Y: 14.9}, true},
		{Point{X: 15, Y: 12}, false},
		{Point{X: 9, Y: 12}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestLerp(t *testing.T) {
	from := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	to := Rect{X: 100, Y: 50, Width: 0, Height: 0}

	if got := Lerp(from, to, 0.5); got != (Rect{X: 50, Y: 25, Width: 50, Height: 50}) {
		t.Errorf("Lerp(0.5) = %+v", got)
	}
	if got := Lerp(from, to, 2); got != to {
		t.Errorf("Lerp(2) = %+v, want %+v", got, to)
	}
	if got := Lerp(from, to, -1); got != from {
		t.Errorf("Lerp(-1) = %+v, want %+v", got, from)
	}
}
