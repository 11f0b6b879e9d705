package generator

import (
	"mapcurator/pkg/engine/world"
)

// RegionShape tags how a room-based generator represents its rooms
type RegionShape int

const (
	// ShapeRect rooms are axis-aligned rectangles
	ShapeRect RegionShape = iota
	// ShapeCell rooms are the member tiles of a Voronoi cell
	ShapeCell
)

// String returns the string representation of a region shape
func (s RegionShape) String() string {
	switch s {
	case ShapeRect:
		return "Rect"
	case ShapeCell:
		return "Cell"
	default:
		return "Unknown"
	}
}

// Region is a read-only summary of one connectable room
type Region struct {
	Index     int
	Shape     RegionShape
	Min, Max  world.Point // inclusive bounding box; zero when Tiles == 0
	Tiles     int
	Connected bool
}

// Contains reports whether p lies inside the region's bounding box
func (r Region) Contains(p world.Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// RegionSource is implemented by generators that build connectable rooms
type RegionSource interface {
	Regions() []Region
}
