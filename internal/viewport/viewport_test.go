package viewport

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-3

func near(a, b float64) bool {
	return math.Abs(a-b) < tol
}

func TestRecomputeFullHD(t *testing.T) {
	screen := ScreenSize{Width: 1920, Height: 1080}
	cam := NewCamera(45, 5)
	cam.SetAspect(screen)

	vp, err := Projector{}.Recompute(screen, cam)
	if err != nil {
		t.Fatal(err)
	}
	if !near(vp.Height, 4.142) {
		t.Errorf("height = %v, want ~4.142", vp.Height)
	}
	if !near(vp.Width, 7.364) {
		t.Errorf("width = %v, want ~7.364", vp.Width)
	}
	if !near(vp.Width, vp.Height*1920/1080) {
		t.Errorf("width %v does not match aspect", vp.Width)
	}
}

func TestRecomputeFollowsCamera(t *testing.T) {
	screen := ScreenSize{Width: 800, Height: 800}
	cam := NewCamera(45, 5)
	a, _ := Projector{}.Recompute(screen, cam)
	cam.Position = mgl64.Vec3{0, 0, 10}
	b, _ := Projector{}.Recompute(screen, cam)
	if !near(b.Height, 2*a.Height) {
		t.Fatalf("doubling distance: %v -> %v", a.Height, b.Height)
	}
	cam.FOV = 90
	c, _ := Projector{}.Recompute(screen, cam)
	if !near(c.Height, 20) {
		t.Fatalf("90 degree fov at 10: %v", c.Height)
	}
}

func TestRecomputeDegenerate(t *testing.T) {
	cam := NewCamera(45, 5)
	for _, s := range []ScreenSize{{1920, 0}, {0, 1080}, {-1, 10}, {10, math.Inf(1)}} {
		vp, err := Projector{}.Recompute(s, cam)
		if !errors.Is(err, ErrDegenerateScreen) {
			t.Errorf("%+v: err = %v", s, err)
		}
		if vp != (Size{}) {
			t.Errorf("%+v: size = %+v", s, vp)
		}
	}
}

func TestGalleryHeight(t *testing.T) {
	vp := Size{Width: 8, Height: 4}
	screen := ScreenSize{Width: 2000, Height: 1000}
	if got := GalleryHeight(vp, Rect{Height: 5000}, screen); got != 20 {
		t.Errorf("got %v, want 20", got)
	}
	if got := GalleryHeight(vp, Rect{Height: 5000}, ScreenSize{Width: 10}); got != 0 {
		t.Errorf("degenerate screen: got %v", got)
	}
}

func TestPlaceFullScreenRect(t *testing.T) {
	screen := ScreenSize{Width: 1000, Height: 500}
	vp := Size{Width: 10, Height: 5}
	tr := Place(Rect{Width: 1000, Height: 500}, screen, vp, 0, 0)
	want := Transform{ScaleX: 10, ScaleY: 5, X: 0, Y: 0}
	if tr != want {
		t.Fatalf("got %+v, want %+v", tr, want)
	}
}

func TestPlaceOffsets(t *testing.T) {
	screen := ScreenSize{Width: 1000, Height: 1000}
	vp := Size{Width: 10, Height: 10}
	b := Rect{Top: 100, Left: 450, Width: 100, Height: 200}

	tr := Place(b, screen, vp, 0, 0)
	if !near(tr.ScaleX, 1) || !near(tr.ScaleY, 2) {
		t.Fatalf("scale = %v,%v", tr.ScaleX, tr.ScaleY)
	}
	if !near(tr.X, 0) {
		t.Errorf("x = %v, want centred", tr.X)
	}
	// top edge at 5 - 1 = 4, centre one unit lower
	if !near(tr.Y, 3) {
		t.Errorf("y = %v, want 3", tr.Y)
	}

	scrolled := Place(b, screen, vp, 100, 0)
	if !near(scrolled.Y, 4) {
		t.Errorf("scrolled y = %v, want 4", scrolled.Y)
	}
	looped := Place(b, screen, vp, 0, 2.5)
	if !near(looped.Y, 0.5) {
		t.Errorf("looped y = %v, want 0.5", looped.Y)
	}
}

func TestPlaceDegenerateScreen(t *testing.T) {
	tr := Place(Rect{Width: 10, Height: 10}, ScreenSize{}, Size{Width: 1, Height: 1}, 0, 0)
	if tr != (Transform{}) {
		t.Fatalf("got %+v", tr)
	}
	for _, v := range []float64{tr.ScaleX, tr.ScaleY, tr.X, tr.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite value in %+v", tr)
		}
	}
}

func TestProjectMatchesViewport(t *testing.T) {
	screen := ScreenSize{Width: 1600, Height: 900}
	cam := NewCamera(45, 5)
	cam.SetAspect(screen)
	vp, err := Projector{}.Recompute(screen, cam)
	if err != nil {
		t.Fatal(err)
	}

	corners := []struct {
		world mgl64.Vec3
		x, y  float64
	}{
		{mgl64.Vec3{-vp.Width / 2, vp.Height / 2, 0}, 0, 0},
		{mgl64.Vec3{vp.Width / 2, -vp.Height / 2, 0}, screen.Width, screen.Height},
		{mgl64.Vec3{0, 0, 0}, screen.Width / 2, screen.Height / 2},
	}
	for _, c := range corners {
		x, y, ok := cam.Project(c.world, screen)
		if !ok {
			t.Fatalf("%v not projected", c.world)
		}
		if !near(x, c.x) || !near(y, c.y) {
			t.Errorf("%v -> (%v,%v), want (%v,%v)", c.world, x, y, c.x, c.y)
		}
	}

	if _, _, ok := cam.Project(mgl64.Vec3{0, 0, 6}, screen); ok {
		t.Error("point behind the camera projected")
	}
}
