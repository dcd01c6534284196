package worldgen

import "testing"

func TestGenerateDeterministic(t *testing.T) {
	a, err := NewGenerator(42).Generate(16, 16, -5, 5, 1, 0, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := NewGenerator(42).Generate(16, 16, -5, 5, 1, 0, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for row := 0; row < 16; row++ {
		for col := 0; col < 16; col++ {
			ha, _ := a.Sample(row, col)
			hb, _ := b.Sample(row, col)
			if ha != hb {
				t.Fatalf("sample (%d, %d) differs across runs: %g vs %g", row, col, ha, hb)
			}
		}
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a, err := NewGenerator(1).Generate(16, 16, -5, 5, 1, 0, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := NewGenerator(2).Generate(16, 16, -5, 5, 1, 0, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	same := true
	for row := 0; row < 16 && same; row++ {
		for col := 0; col < 16; col++ {
			ha, _ := a.Sample(row, col)
			hb, _ := b.Sample(row, col)
			if ha != hb {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("seeds 1 and 2 produced identical terrain")
	}
}

func TestGenerateWithinBounds(t *testing.T) {
	g, err := NewGenerator(7).Generate(32, 32, -2, 3, 1, 0, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for row := 0; row < 32; row++ {
		for col := 0; col < 32; col++ {
			h, _ := g.Sample(row, col)
			if h < -2 || h > 3 {
				t.Fatalf("sample (%d, %d) = %g, want within [-2, 3]", row, col, h)
			}
		}
	}
}

func TestGenerateInvalidSize(t *testing.T) {
	if _, err := NewGenerator(1).Generate(1, 16, 0, 1, 1, 0, 0); err == nil {
		t.Error("Generate with width 1 err = nil, want error")
	}
}
