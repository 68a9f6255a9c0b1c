package layout

import "testing"

func TestAbsConstants(t *testing.T) {
	if Mm*25.4 < In-0.001 || Mm*25.4 > In+0.001 {
		t.Errorf("25.4mm should equal 1in: got %v", Mm*25.4)
	}
	if Cm*2.54 < In-0.001 || Cm*2.54 > In+0.001 {
		t.Errorf("2.54cm should equal 1in: got %v", Cm*2.54)
	}
	if In != 72*Pt {
		t.Errorf("1in should equal 72pt: got %v", In)
	}
}

func TestAbsMethods(t *testing.T) {
	a := Abs(10)
	b := Abs(20)

	if a.Min(b) != 10 {
		t.Errorf("Min(10, 20) = %v, expected 10", a.Min(b))
	}
	if a.Max(b) != 20 {
		t.Errorf("Max(10, 20) = %v, expected 20", a.Max(b))
	}
	if neg := Abs(-5); neg.Abs() != 5 {
		t.Errorf("Abs(-5) = %v, expected 5", neg.Abs())
	}
	if a.Clamp(15, 25) != 15 {
		t.Errorf("Clamp(10, 15, 25) = %v, expected 15", a.Clamp(15, 25))
	}
	if !Abs(0).IsZero() {
		t.Errorf("IsZero(0) = false, expected true")
	}
	if Inf().IsFinite() {
		t.Errorf("Inf().IsFinite() = true, expected false")
	}
}

func TestEmAt(t *testing.T) {
	if got := Em(1.5).At(10); got != 15 {
		t.Errorf("1.5em at size 10 = %v, expected 15", got)
	}
}

func TestFrShare(t *testing.T) {
	if got := Fr(1).Share(2, 100); got != 50 {
		t.Errorf("1fr of 2fr total over 100 = %v, expected 50", got)
	}
	if got := Fr(1).Share(0, 100); got != 0 {
		t.Errorf("Share with zero total fr = %v, expected 0", got)
	}
}

func TestRelativeResolve(t *testing.T) {
	r := Relative{Abs: 10, Rel: Ratio(0.5)}
	if got := r.Resolve(100); got != 60 {
		t.Errorf("10pt + 50%% of 100 = %v, expected 60", got)
	}
	if !(Relative{}).IsZero() {
		t.Errorf("zero-value Relative should be IsZero")
	}
}

func TestHAlignPosition(t *testing.T) {
	cases := []struct {
		h    HAlign
		dir  Dir
		want Abs
	}{
		{HAlignStart, DirLTR, 0},
		{HAlignStart, DirRTL, 100},
		{HAlignEnd, DirLTR, 100},
		{HAlignEnd, DirRTL, 0},
		{HAlignCenter, DirLTR, 50},
		{HAlignLeft, DirRTL, 0},
		{HAlignRight, DirLTR, 100},
	}
	for _, c := range cases {
		if got := c.h.Position(100, c.dir); got != c.want {
			t.Errorf("HAlign(%v).Position(100, %v) = %v, want %v", c.h, c.dir, got, c.want)
		}
	}
}

func TestSidesSplatAndSums(t *testing.T) {
	s := SidesSplat(Abs(5))
	if SumHorizontal(s) != 10 {
		t.Errorf("SumHorizontal = %v, expected 10", SumHorizontal(s))
	}
	if SumVertical(s) != 10 {
		t.Errorf("SumVertical = %v, expected 10", SumVertical(s))
	}
}
