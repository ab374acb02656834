package window

import (
	"math"
	"testing"
)

func TestGenerateAllTypes(t *testing.T) {
	types := []Type{TypeRectangular, TypeHann, TypeHamming, TypeFlatTop}

	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}
		})
	}
}

func TestHannWindowMatchesFormula(t *testing.T) {
	data := []float64{3, -1, 2, 7, 5, -4, 0.5}
	got := HannWindow(data)

	n := float64(len(data) - 1)
	for i, v := range data {
		want := v * 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/n))
		if !almostEqual(got[i], want, 1e-12) {
			t.Fatalf("index %d: got=%v want=%v", i, got[i], want)
		}
	}

	if data[3] != 7 {
		t.Fatal("HannWindow modified its input")
	}
}

func TestHannWindowEdgeCases(t *testing.T) {
	if got := HannWindow(nil); got == nil || len(got) != 0 {
		t.Fatalf("HannWindow(nil) = %#v, want empty slice", got)
	}

	got := HannWindow([]float64{9})
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("HannWindow single sample = %v, want [0]", got)
	}
}

func TestApplyInPlaceByType(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	Apply(TypeRectangular, buf)

	for i, v := range buf {
		if v != float64(i+1) {
			t.Fatalf("rectangular should be passthrough at %d: %v", i, v)
		}
	}

	Apply(TypeHann, buf)

	if buf[0] != 0 {
		t.Fatalf("hann first sample should be 0, got %v", buf[0])
	}
}

func TestWindowedCopies(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1}

	got := Windowed(TypeHamming, data)
	if !almostEqual(got[0], 0.08, 1e-12) || !almostEqual(got[2], 1, 1e-12) {
		t.Fatalf("hamming = %v", got)
	}

	if data[0] != 1 {
		t.Fatal("Windowed modified its input")
	}

	rect := Windowed(TypeRectangular, data)
	for i, v := range rect {
		if v != 1 {
			t.Fatalf("rectangular[%d] = %v, want 1", i, v)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{in: "hann", want: TypeHann},
		{in: " Hanning ", want: TypeHann},
		{in: "hamming", want: TypeHamming},
		{in: "flattop", want: TypeFlatTop},
		{in: "none", want: TypeRectangular},
		{in: "rectangular", want: TypeRectangular},
		{in: "kaiser", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseType(%q) succeeded", tt.in)
				}
				return
			}

			if err != nil || got != tt.want {
				t.Fatalf("ParseType(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}

			if back, err := ParseType(got.String()); err != nil || back != got {
				t.Fatalf("round trip of %v = %v, %v", got, back, err)
			}
		})
	}
}

func TestGoldenVectors(t *testing.T) {
	hannExpected := []float64{
		0.0, 0.1882550990706332, 0.6112604669781572, 0.9504844339512095,
		0.9504844339512095, 0.6112604669781573, 0.1882550990706333, 0.0,
	}
	hammingExpected := []float64{
		0.08, 0.25319469114498255, 0.6423596296199047, 0.9544456792351128,
		0.9544456792351128, 0.6423596296199048, 0.25319469114498266, 0.08,
	}
	flattopExpected := []float64{
		-0.0004210510000000013, -0.03684077608132298, 0.01070371671636002,
		0.7808739149387524, 0.7808739149387525, 0.010703716716360296,
		-0.03684077608132292, -0.0004210510000000013,
	}

	checkGolden(t, Generate(TypeHann, 8), hannExpected, 1e-10)
	checkGolden(t, Generate(TypeHamming, 8), hammingExpected, 1e-10)
	checkGolden(t, Generate(TypeFlatTop, 8), flattopExpected, 1e-8)
}

func TestGenerateEdgeCases(t *testing.T) {
	if got := Generate(TypeHann, 0); got != nil {
		t.Fatalf("expected nil for zero length, got %v", got)
	}

	if got := Generate(TypeHamming, 1); len(got) != 1 || !almostEqual(got[0], 0.08, 1e-12) {
		t.Fatalf("single hamming coefficient = %v, want [0.08]", got)
	}
}

func checkGolden(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("len mismatch got=%d want=%d", len(got), len(want))
	}

	for i := range got {
		if !almostEqual(got[i], want[i], tol) {
			t.Fatalf("index %d: got=%.16f want=%.16f", i, got[i], want[i])
		}
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
