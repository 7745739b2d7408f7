package interop

import (
	"fmt"

	"github.com/lumen-ml/lumen/internal/array"
)

// Tag is an external framework dtype tag. The set is fixed; translation is
// over tags only, never values, and no numeric conversion is ever performed
// during marshalling.
type Tag int

// External dtype tags.
const (
	TagInt8 Tag = iota
	TagUint8
	TagInt16
	TagInt32
	TagInt64
	TagFloat16
	TagFloat32
	TagFloat64
	TagBool
)

// String returns the external spelling of the tag.
func (t Tag) String() string {
	switch t {
	case TagInt8:
		return "int8"
	case TagUint8:
		return "uint8"
	case TagInt16:
		return "int16"
	case TagInt32:
		return "int32"
	case TagInt64:
		return "int64"
	case TagFloat16:
		return "float16"
	case TagFloat32:
		return "float32"
	case TagFloat64:
		return "float64"
	case TagBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Size returns the byte size of one element of the tagged dtype.
func (t Tag) Size() int {
	kind, err := KindOf(t)
	if err != nil {
		panic(err)
	}
	return kind.Size()
}

// TagOf maps an internal element kind to its external dtype tag.
func TagOf(kind array.DataType) (Tag, error) {
	switch kind {
	case array.Int8:
		return TagInt8, nil
	case array.Uint8:
		return TagUint8, nil
	case array.Int16:
		return TagInt16, nil
	case array.Int32:
		return TagInt32, nil
	case array.Int64:
		return TagInt64, nil
	case array.Float16:
		return TagFloat16, nil
	case array.Float32:
		return TagFloat32, nil
	case array.Float64:
		return TagFloat64, nil
	case array.Bool:
		return TagBool, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedType, kind)
	}
}

// KindOf maps an external dtype tag to the internal element kind.
func KindOf(tag Tag) (array.DataType, error) {
	switch tag {
	case TagInt8:
		return array.Int8, nil
	case TagUint8:
		return array.Uint8, nil
	case TagInt16:
		return array.Int16, nil
	case TagInt32:
		return array.Int32, nil
	case TagInt64:
		return array.Int64, nil
	case TagFloat16:
		return array.Float16, nil
	case TagFloat32:
		return array.Float32, nil
	case TagFloat64:
		return array.Float64, nil
	case TagBool:
		return array.Bool, nil
	default:
		return 0, fmt.Errorf("%w: tag %d", ErrUnsupportedType, tag)
	}
}
