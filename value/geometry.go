package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCoordinate is the dedicated diagnostic for a geometry
// coordinate that is NaN or carries a decimal-typed component — geometry
// coordinates must be plain finite floats.
var ErrInvalidCoordinate = errors.New("coordinate numbers can't be NaN or a decimal")

// Coordinate is a single (x, y) pair. ValidateCoordinate enforces the
// invariant from the data model: Number::Float(NaN) is representable in
// general but forbidden here, and decimal-typed numbers are never valid
// coordinate components.
type Coordinate struct {
	X, Y float64
}

// ValidateCoordinate rejects NaN or decimal components before a
// coordinate is accepted by the parser's `(x, y)` production.
func ValidateCoordinate(x, y Number) (Coordinate, error) {
	if x.IsDecimal() || y.IsDecimal() {
		return Coordinate{}, ErrInvalidCoordinate
	}
	if x.IsNaN() || y.IsNaN() {
		return Coordinate{}, ErrInvalidCoordinate
	}
	return Coordinate{X: x.AsFloat64(), Y: y.AsFloat64()}, nil
}

// GeometryKind distinguishes the geometry variants.
type GeometryKind uint8

const (
	GeometryPoint GeometryKind = iota
	GeometryLine
	GeometryPolygon
	GeometryCollection
)

// Geometry is the Value::Geometry variant: a point, line, polygon, or a
// collection of nested geometries.
type Geometry struct {
	kind       GeometryKind
	point      Coordinate
	line       []Coordinate
	polygon    [][]Coordinate // first ring is the exterior, remainder are holes
	collection []Geometry
}

func NewGeometryPoint(c Coordinate) Geometry { return Geometry{kind: GeometryPoint, point: c} }
func NewGeometryLine(pts []Coordinate) Geometry {
	return Geometry{kind: GeometryLine, line: pts}
}
func NewGeometryPolygon(rings [][]Coordinate) Geometry {
	return Geometry{kind: GeometryPolygon, polygon: rings}
}
func NewGeometryCollection(items []Geometry) Geometry {
	return Geometry{kind: GeometryCollection, collection: items}
}

func (Geometry) Kind() Kind { return KindGeometry }
func (g Geometry) value()   {}

func (g Geometry) String() string {
	switch g.kind {
	case GeometryPoint:
		return fmt.Sprintf("(%s, %s)", trimFloat(g.point.X), trimFloat(g.point.Y))
	case GeometryLine:
		parts := make([]string, len(g.line))
		for i, c := range g.line {
			parts[i] = fmt.Sprintf("(%s, %s)", trimFloat(c.X), trimFloat(c.Y))
		}
		return "{ type: 'LineString', coordinates: [" + strings.Join(parts, ", ") + "] }"
	case GeometryPolygon:
		rings := make([]string, len(g.polygon))
		for i, ring := range g.polygon {
			pts := make([]string, len(ring))
			for j, c := range ring {
				pts[j] = fmt.Sprintf("(%s, %s)", trimFloat(c.X), trimFloat(c.Y))
			}
			rings[i] = "[" + strings.Join(pts, ", ") + "]"
		}
		return "{ type: 'Polygon', coordinates: [" + strings.Join(rings, ", ") + "] }"
	case GeometryCollection:
		parts := make([]string, len(g.collection))
		for i, item := range g.collection {
			parts[i] = item.String()
		}
		return "{ type: 'GeometryCollection', geometries: [" + strings.Join(parts, ", ") + "] }"
	default:
		return "{}"
	}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
