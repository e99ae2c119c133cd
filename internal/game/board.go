package game

import (
	"fmt"
	"math/rand"
)

// Board is one player's 10x10 grid, indexed [y][x].
type Board [BoardSize][BoardSize]Cell

// Placement is trial-and-error; the caps only guard against an
// infeasible fleet, which the standard one is not.
const (
	boardAttempts = 100
	shipAttempts  = 1000
)

// NewBoard returns a board with the standard fleet placed at random,
// no two ships touching (including diagonally).
func NewBoard() (*Board, error) {
	for attempt := 0; attempt < boardAttempts; attempt++ {
		if b, ok := tryPlaceFleet(Fleet); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: fleet placement exhausted", ErrInternalFault)
}

func tryPlaceFleet(fleet []int) (*Board, bool) {
	var b Board
	for _, size := range fleet {
		placed := false
		for try := 0; try < shipAttempts; try++ {
			x := rand.Intn(BoardSize)
			y := rand.Intn(BoardSize)
			horizontal := rand.Intn(2) == 0
			if b.canPlace(x, y, size, horizontal) {
				b.placeShip(x, y, size, horizontal)
				placed = true
				break
			}
		}
		if !placed {
			return nil, false
		}
	}
	return &b, true
}

// canPlace reports whether a ship of the given size fits with its bow at
// (x, y): every cell in bounds and the whole 8-neighborhood of every
// cell still empty.
func (b *Board) canPlace(x, y, size int, horizontal bool) bool {
	for i := 0; i < size; i++ {
		cx, cy := x, y
		if horizontal {
			cx += i
		} else {
			cy += i
		}
		if !inBounds(cx, cy) {
			return false
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := cx+dx, cy+dy
				if inBounds(nx, ny) && b[ny][nx] != Empty {
					return false
				}
			}
		}
	}
	return true
}

func (b *Board) placeShip(x, y, size int, horizontal bool) {
	for i := 0; i < size; i++ {
		if horizontal {
			b[y][x+i] = Ship
		} else {
			b[y+i][x] = Ship
		}
	}
}

// StateAt returns the cell state at (x, y). Out-of-range coordinates are
// a programming error, not a recoverable condition.
func (b *Board) StateAt(x, y int) Cell {
	if !inBounds(x, y) {
		panic(fmt.Sprintf("cell (%d,%d) out of range", x, y))
	}
	return b[y][x]
}

// SetState overwrites the cell state at (x, y), bounds-checked like StateAt.
func (b *Board) SetState(x, y int, c Cell) {
	if !inBounds(x, y) {
		panic(fmt.Sprintf("cell (%d,%d) out of range", x, y))
	}
	b[y][x] = c
}

// ShipCells counts cells still in state Ship.
func (b *Board) ShipCells() int {
	n := 0
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if b[y][x] == Ship {
				n++
			}
		}
	}
	return n
}

func inBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}
