package geometry

import "testing"

func TestComputeMatchesSpecFormulas(t *testing.T) {
	b := Compute(40, 1920)

	if got, want := b.LineLeadingMulti, 0.42*40; got != want {
		t.Errorf("LineLeadingMulti = %v, want %v", got, want)
	}
	if got, want := b.OuterBottom, 18.0; got != want {
		t.Errorf("OuterBottom = %v, want %v (max(0.35*40,18)=%v)", got, want, 0.35*40)
	}
	canvasW := 1920.0
	if got, want := b.HMargin, 0.018*canvasW; got != want {
		t.Errorf("HMargin = %v, want %v", got, want)
	}
}

func TestComputeFloorsSmallFonts(t *testing.T) {
	b := Compute(8, 500)
	if b.OuterTop != 6 {
		t.Errorf("OuterTop should floor to 6 for tiny fonts, got %v", b.OuterTop)
	}
	if b.InnerBottom != 28 {
		t.Errorf("InnerBottom should floor to 28, got %v", b.InnerBottom)
	}
}

func TestBandRectAnchorsToBottom(t *testing.T) {
	b := Compute(40, 1920)
	r := b.BandRect(1920, 1080, 100)

	wantH := b.InnerTop + 100 + b.InnerBottom
	if r.H != wantH {
		t.Errorf("rect height = %v, want %v", r.H, wantH)
	}
	wantY := 1080 - b.OuterBottom - wantH
	if r.Y != wantY {
		t.Errorf("rect y = %v, want %v", r.Y, wantY)
	}
	if r.X != b.HMargin || r.W != 1920-2*b.HMargin {
		t.Errorf("rect x/w = %v/%v, want %v/%v", r.X, r.W, b.HMargin, 1920-2*b.HMargin)
	}
}

func TestInnerTopYMatchesPainterAndSubtitlePositioner(t *testing.T) {
	b := Compute(36, 1280)
	r := b.BandRect(1280, 720, 50)
	gotTop := r.InnerTopY(b)
	wantTop := r.Y + b.InnerTop
	if gotTop != wantTop {
		t.Errorf("InnerTopY = %v, want %v", gotTop, wantTop)
	}
}
