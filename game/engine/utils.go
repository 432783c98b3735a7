package engine

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.Row-to.Row) + abs(from.Col-to.Col)
}

// TotalDisplacement sums the number of cells travelled by every move
func TotalDisplacement(moves []Move) int {
	total := 0
	for _, m := range moves {
		total += abs(m.Displacement)
	}
	return total
}

// CountMisplaced counts tiles that are not on their sorted target cell
func CountMisplaced(g *Grid) int {
	count := 0
	for i, row := range g.cells {
		for j, v := range row {
			if v != 0 && (i != 0 || j != v-1) {
				count++
			}
		}
	}
	return count
}

// HomeDistance sums every tile's Manhattan distance to its sorted target cell
func HomeDistance(g *Grid) int {
	total := 0
	for i, row := range g.cells {
		for j, v := range row {
			if v != 0 {
				total += ManhattanDistance(Position{Row: i, Col: j}, Position{Row: 0, Col: v - 1})
			}
		}
	}
	return total
}
