package world

// Point is an integer cell coordinate. X grows east, Y grows south.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p moved by the given offset
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the neighbouring point in the given direction
func (p Point) Step(dir Direction) Point {
	dx, dy := dir.Delta()
	return p.Add(dx, dy)
}

// Manhattan returns the taxicab distance between two points
func (p Point) Manhattan(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
