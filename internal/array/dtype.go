// Package array provides the core n-dimensional array type and the engine
// interface every numerical backend implements.
package array

// DataType represents runtime type information for arrays.
type DataType int

// Supported element types. Geometry code runs in Float64 by default;
// Float32 is kept for engines that prefer single precision.
const (
	Float64 DataType = iota
	Float32
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Float64:
		return 8
	case Float32:
		return 4
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	default:
		return "unknown"
	}
}

// Promote returns the wider of two data types. Mixed-type binary operations
// compute in the promoted type.
func Promote(a, b DataType) DataType {
	if a == Float64 || b == Float64 {
		return Float64
	}
	return Float32
}
