package geometry

import "math"

// PointInPolygon tests if a point is inside a polygon using even-odd ray
// casting. The polygon is implicitly closed: the last vertex connects back
// to the first. Points exactly on the boundary are not guaranteed to be
// reported inside by this test; callers needing a boundary-inclusive rule
// should combine it with PointOnPolygon.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// PointOnPolygon tests if a point lies exactly on one of the polygon's
// edges (within eps of the supporting segment).
func PointOnPolygon(p Point2D, polygon []Point2D, eps float64) bool {
	n := len(polygon)
	if n < 2 {
		return false
	}
	for i := 0; i < n; i++ {
		if pointOnSegment(p, polygon[i], polygon[(i+1)%n], eps) {
			return true
		}
	}
	return false
}

// pointOnSegment reports whether p lies on the segment a-b within eps.
func pointOnSegment(p, a, b Point2D, eps float64) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	if p.X < minX-eps || p.X > maxX+eps || p.Y < minY-eps || p.Y > maxY+eps {
		return false
	}

	// Distance from p to the line through a-b.
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length < eps {
		return p.Distance(a) <= eps
	}
	cross := dx*(p.Y-a.Y) - dy*(p.X-a.X)
	return math.Abs(cross)/length <= eps
}

// PolygonArea returns the signed area of the polygon (shoelace formula).
// Positive for counter-clockwise winding in a y-up coordinate system.
func PolygonArea(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return sum / 2
}
