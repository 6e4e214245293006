package engine

import (
	"fmt"

	"github.com/apexys/netcdf/errors"
)

// Native status codes surfaced through errors.KindEngine.
const (
	StatusBadID    = -33 // bad container or group id
	StatusReadOnly = -37 // write attempted on a read-only container
	StatusEdge     = -57 // hyperslab exceeds a fixed dimension bound
)

// typeOf maps a Go attribute/payload value onto the atomic type id it
// stores as. Slices map to the same id as their element type.
func typeOf(value any) (TypeID, error) {
	switch value.(type) {
	case int8, []int8:
		return TypeByte, nil
	case uint8, []uint8:
		return TypeUByte, nil
	case int16, []int16:
		return TypeShort, nil
	case uint16, []uint16:
		return TypeUShort, nil
	case int32, []int32:
		return TypeInt, nil
	case uint32, []uint32:
		return TypeUInt, nil
	case int64, []int64:
		return TypeInt64, nil
	case uint64, []uint64:
		return TypeUInt64, nil
	case float32, []float32:
		return TypeFloat, nil
	case float64, []float64:
		return TypeDouble, nil
	case string, []string:
		return TypeString, nil
	default:
		return TypeNat, errors.Unsupported("engine.typeOf",
			fmt.Sprintf("no atomic type holds %T", value))
	}
}

// payloadLen returns the element count of a payload slice, or an error
// if data is not a slice of an atomic element type.
func payloadLen(t TypeID, data any) (uint64, error) {
	n := -1
	switch d := data.(type) {
	case []int8:
		if t == TypeByte {
			n = len(d)
		}
	case []uint8:
		if t == TypeUByte {
			n = len(d)
		}
	case []int16:
		if t == TypeShort {
			n = len(d)
		}
	case []uint16:
		if t == TypeUShort {
			n = len(d)
		}
	case []int32:
		if t == TypeInt {
			n = len(d)
		}
	case []uint32:
		if t == TypeUInt {
			n = len(d)
		}
	case []int64:
		if t == TypeInt64 {
			n = len(d)
		}
	case []uint64:
		if t == TypeUInt64 {
			n = len(d)
		}
	case []float32:
		if t == TypeFloat {
			n = len(d)
		}
	case []float64:
		if t == TypeDouble {
			n = len(d)
		}
	case []string:
		if t == TypeString {
			n = len(d)
		}
	default:
		return 0, errors.TypeMismatch("engine.payload",
			fmt.Sprintf("%T is not an atomic payload slice", data))
	}
	if n < 0 {
		return 0, errors.TypeMismatch("engine.payload",
			fmt.Sprintf("payload %T does not match variable type id %d", data, t))
	}
	return uint64(n), nil
}
