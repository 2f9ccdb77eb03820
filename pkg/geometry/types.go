// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"fmt"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle stored by its extents.
type Rect struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// RectFromCenter builds the rectangle of the given size centered on center.
// Sizes are assumed non-negative, so Min <= Max on both axes.
func RectFromCenter(center Point2D, size Size) Rect {
	return Rect{
		MinX: center.X - size.Width/2,
		MaxX: center.X + size.Width/2,
		MinY: center.Y - size.Height/2,
		MaxY: center.Y + size.Height/2,
	}
}

// Contains returns true if the point is inside the rectangle. Edges count as inside.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.MinX && p.X <= r.MaxX &&
		p.Y >= r.MinY && p.Y <= r.MaxY
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Size returns the rectangle's width and height.
func (r Rect) Size() Size {
	return Size{Width: r.MaxX - r.MinX, Height: r.MaxY - r.MinY}
}

// IsDegenerate reports whether the rectangle has zero area.
func (r Rect) IsDegenerate() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// String formats the rectangle as [min_x, max_x, min_y, max_y].
func (r Rect) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", r.MinX, r.MaxX, r.MinY, r.MaxY)
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{MinX: points[0].X, MaxX: points[0].X, MinY: points[0].Y, MaxY: points[0].Y}
	for _, p := range points[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}
