package game

var dirs4 = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// resolve applies one shot at (x, y) to the board. It returns the shot's
// result and the number of cells newly marked Sunk, so the session can
// track the win condition cumulatively. Targets already resolved as Miss
// or Sunk are illegal; a target already Hit re-runs the sunk-check,
// since an adjacent hit may have closed out the ship.
func resolve(b *Board, x, y int) (Result, int, error) {
	if !inBounds(x, y) {
		return "", 0, ErrInvalidMove
	}
	switch b[y][x] {
	case Empty:
		b[y][x] = Miss
		return ResultMiss, 0, nil
	case Ship:
		b[y][x] = Hit
	case Hit:
	default:
		return "", 0, ErrInvalidMove
	}
	if shipAlive(b, x, y) {
		return ResultHit, 0, nil
	}
	return ResultSunk, markSunk(b, x, y), nil
}

// shipAlive reports whether the ship containing (x, y) still has an
// unhit cell. Iterative flood fill with an explicit stack and visited
// set; expands through Hit cells, terminates on the first Ship cell.
func shipAlive(b *Board, x, y int) bool {
	var visited [BoardSize][BoardSize]bool
	stack := [][2]int{{x, y}}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := c[0], c[1]
		if visited[cy][cx] {
			continue
		}
		visited[cy][cx] = true
		switch b[cy][cx] {
		case Ship:
			return true
		case Hit:
			for _, d := range dirs4 {
				nx, ny := cx+d[0], cy+d[1]
				if inBounds(nx, ny) && !visited[ny][nx] {
					stack = append(stack, [2]int{nx, ny})
				}
			}
		}
	}
	return false
}

// markSunk floods the connected ship component from (x, y), marks every
// cell Sunk, and seals the surrounding 8-neighborhood as Miss so the
// implied misses never need to be played. Both passes are idempotent.
// Returns the number of cells newly marked Sunk.
func markSunk(b *Board, x, y int) int {
	var visited [BoardSize][BoardSize]bool
	var cells [][2]int
	stack := [][2]int{{x, y}}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := c[0], c[1]
		if visited[cy][cx] {
			continue
		}
		visited[cy][cx] = true
		if b[cy][cx] != Hit && b[cy][cx] != Ship {
			continue
		}
		b[cy][cx] = Sunk
		cells = append(cells, [2]int{cx, cy})
		for _, d := range dirs4 {
			nx, ny := cx+d[0], cy+d[1]
			if inBounds(nx, ny) && !visited[ny][nx] {
				stack = append(stack, [2]int{nx, ny})
			}
		}
	}
	for _, c := range cells {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := c[0]+dx, c[1]+dy
				if inBounds(nx, ny) && (b[ny][nx] == Empty || b[ny][nx] == Ship) {
					b[ny][nx] = Miss
				}
			}
		}
	}
	return len(cells)
}
