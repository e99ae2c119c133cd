package game

import (
	"sort"
	"testing"
)

func TestNewBoardPlacesFullFleet(t *testing.T) {
	want := 0
	for _, size := range Fleet {
		want += size
	}
	for i := 0; i < 25; i++ {
		b, err := NewBoard()
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if got := b.ShipCells(); got != want {
			t.Fatalf("expected %d ship cells, got %d", want, got)
		}
	}
}

func TestNewBoardShipsNeverTouch(t *testing.T) {
	diagonals := [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for i := 0; i < 25; i++ {
		b, err := NewBoard()
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		// Ships are straight lines, so a diagonal pair of ship cells
		// can only come from two different ships touching.
		for y := 0; y < BoardSize; y++ {
			for x := 0; x < BoardSize; x++ {
				if b[y][x] != Ship {
					continue
				}
				for _, d := range diagonals {
					nx, ny := x+d[0], y+d[1]
					if inBounds(nx, ny) && b[ny][nx] == Ship {
						t.Fatalf("ships touch diagonally at (%d,%d) and (%d,%d)", x, y, nx, ny)
					}
				}
			}
		}
		// Orthogonal touching merges components, so the component size
		// multiset must match the fleet exactly.
		sizes := shipComponentSizes(b)
		want := append([]int(nil), Fleet...)
		sort.Ints(sizes)
		sort.Ints(want)
		if len(sizes) != len(want) {
			t.Fatalf("expected %d ships, found %d components", len(want), len(sizes))
		}
		for j := range want {
			if sizes[j] != want[j] {
				t.Fatalf("component sizes %v, want %v", sizes, want)
			}
		}
	}
}

// shipComponentSizes labels 4-connected ship components and returns
// their sizes.
func shipComponentSizes(b *Board) []int {
	var seen [BoardSize][BoardSize]bool
	var sizes []int
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if b[y][x] != Ship || seen[y][x] {
				continue
			}
			size := 0
			stack := [][2]int{{x, y}}
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cx, cy := c[0], c[1]
				if seen[cy][cx] || b[cy][cx] != Ship {
					continue
				}
				seen[cy][cx] = true
				size++
				for _, d := range dirs4 {
					nx, ny := cx+d[0], cy+d[1]
					if inBounds(nx, ny) {
						stack = append(stack, [2]int{nx, ny})
					}
				}
			}
			sizes = append(sizes, size)
		}
	}
	return sizes
}

func TestSetStateRoundTrip(t *testing.T) {
	var b Board
	b.SetState(3, 4, Ship)
	if b.StateAt(3, 4) != Ship {
		t.Fatalf("expected Ship at (3,4), got %v", b.StateAt(3, 4))
	}
}

func TestStateAtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range cell")
		}
	}()
	var b Board
	b.StateAt(BoardSize, 0)
}
