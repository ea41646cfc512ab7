package pattern

import (
	"fmt"
	"testing"

	"github.com/matzehuels/tokenlogo/pkg/core/palette"
	"github.com/matzehuels/tokenlogo/pkg/core/prng"
)

func streamAfterHues(name, symbol string) *prng.Stream {
	s := prng.NewStream(prng.Seed(name, symbol))
	palette.Pick(s)
	return s
}

func TestGenerateReference(t *testing.T) {
	g := Generate(streamAfterHues("Nova", "NOVA"))

	want := []string{
		".#...#.",
		"#.#.#.#",
		"#######",
		".......",
		"##...##",
		".#.#.#.",
		".#...#.",
	}
	for i, row := range g.Rows() {
		if row != want[i] {
			t.Errorf("row %d = %q, want %q", i, row, want[i])
		}
	}
}

func TestGenerateDrawCount(t *testing.T) {
	s := prng.NewStream(7)
	Generate(s)
	if s.Draws() != Draws {
		t.Errorf("Generate consumed %d draws, want %d", s.Draws(), Draws)
	}
	if Draws != 28 {
		t.Errorf("Draws = %d, want 28", Draws)
	}
}

func TestGenerateSymmetry(t *testing.T) {
	for seed := uint32(0); seed < 1000; seed++ {
		g := Generate(prng.NewStream(seed))
		for row := range Size {
			if g[row][4] != g[row][2] || g[row][5] != g[row][1] || g[row][6] != g[row][0] {
				t.Fatalf("seed %d row %d not mirrored: %v", seed, row, g[row])
			}
		}
		if !g.Symmetric() {
			t.Fatalf("seed %d: Symmetric() = false", seed)
		}
	}
}

func TestSymmetricDetectsBrokenGrid(t *testing.T) {
	var g Grid
	g[3][0] = true
	if g.Symmetric() {
		t.Error("Symmetric() = true for asymmetric grid")
	}
}

func TestFilled(t *testing.T) {
	var g Grid
	if g.Filled() != 0 {
		t.Errorf("empty grid Filled() = %d", g.Filled())
	}
	g[0][0], g[0][6] = true, true
	if g.Filled() != 2 {
		t.Errorf("Filled() = %d, want 2", g.Filled())
	}
}

func ExampleGrid_String() {
	var g Grid
	g[0][3] = true
	g[1][2], g[1][4] = true, true
	fmt.Println(g.Rows()[0])
	fmt.Println(g.Rows()[1])
	// Output:
	// ...#...
	// ..#.#..
}
