package layout

import (
	"testing"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

func TestChooseVariant(t *testing.T) {
	tests := []struct {
		name   string
		vw, vh int
		want   Variant
	}{
		{"fits", 1000, 800, Full},
		{"exact fit", 840, 665, Full},
		{"too narrow", 839, 800, Small},
		{"too short", 1000, 664, Small},
		{"both", 100, 100, Small},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseVariant(tt.vw, tt.vh, 800, 600, 40, 65)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestChooseVariantHasNoMemory(t *testing.T) {
	first := ChooseVariant(100, 100, 800, 600, 40, 65)
	second := ChooseVariant(2000, 2000, 800, 600, 40, 65)
	third := ChooseVariant(100, 100, 800, 600, 40, 65)
	if first != Small || second != Full || third != Small {
		t.Errorf("unexpected sequence %v %v %v", first, second, third)
	}
}

func TestCompositeChoose(t *testing.T) {
	sizes := model.DefaultSizeSpec()
	l := Composite()

	// 752+200+40 = 992 wide, 608+76+45+65 = 794 tall
	if got := l.Choose(model.Size{Width: 992, Height: 794}, sizes); got != Full {
		t.Errorf("expected full at exact fit, got %v", got)
	}
	if got := l.Choose(model.Size{Width: 991, Height: 794}, sizes); got != Small {
		t.Errorf("expected small one pixel short, got %v", got)
	}

	s := Standalone()
	if got := s.Choose(model.Size{Width: 792, Height: 673}, sizes); got != Full {
		t.Errorf("standalone: expected full, got %v", got)
	}
}

func TestStripContainerWidth(t *testing.T) {
	tests := []struct {
		image, stride, want int
	}{
		{752, 102, 816},
		{564, 102, 612},
		{100, 50, 100},
		// rounding up to 200 overshoots by 190, so the stride is dropped
		{10, 200, 0},
	}
	for _, tt := range tests {
		got := StripContainerWidth(tt.image, tt.stride)
		if got != tt.want {
			t.Errorf("StripContainerWidth(%d,%d): expected %d, got %d", tt.image, tt.stride, tt.want, got)
		}
	}
}

func TestComputeGeometry(t *testing.T) {
	sizes := model.DefaultSizeSpec()
	g := Composite().Compute(Small, sizes, 10)

	if g.Image != sizes.Small {
		t.Errorf("expected small image box, got %v", g.Image)
	}
	if g.Stride != 102 {
		t.Errorf("expected stride 102, got %d", g.Stride)
	}
	if g.StripWidth != 1020 {
		t.Errorf("expected strip width 1020, got %d", g.StripWidth)
	}
	if g.ContainerWidth != 612 {
		t.Errorf("expected container 612, got %d", g.ContainerWidth)
	}
	if g.View != (model.Size{Width: 764, Height: 577}) {
		t.Errorf("unexpected view %v", g.View)
	}

	sg := Standalone().Compute(Full, sizes, 10)
	if sg.StripWidth != 0 || sg.View != sizes.Full {
		t.Errorf("standalone geometry should have no strip: %+v", sg)
	}
}

func TestByName(t *testing.T) {
	if l, err := ByName("standalone"); err != nil || l.Kind != KindStandalone {
		t.Errorf("ByName(standalone) = %+v, %v", l, err)
	}
	if l, err := ByName(""); err != nil || l.Kind != KindComposite {
		t.Errorf("ByName(\"\") = %+v, %v", l, err)
	}
	if _, err := ByName("mosaic"); err == nil {
		t.Error("expected error for unknown layout")
	}
}
