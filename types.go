package netcdf

import (
	"fmt"

	"github.com/apexys/netcdf/engine"
	"github.com/apexys/netcdf/errors"
)

// Kind tags the type of a variable or attribute value. The atomic
// kinds form a closed set; user-defined types surface as Compound,
// Enum or Opaque and are carried as inert descriptors (see UserType).
type Kind int

const (
	Unknown Kind = iota
	Byte         // signed 8-bit
	UByte
	Char // classic-format text
	Short
	UShort
	Int
	UInt
	Int64
	UInt64
	Float
	Double
	String // variable-length string
	Compound
	Enum
	Opaque
	Vlen
)

// String returns the CDL name of the kind.
func (k Kind) String() string {
	switch k {
	case Byte:
		return "byte"
	case UByte:
		return "ubyte"
	case Char:
		return "char"
	case Short:
		return "short"
	case UShort:
		return "ushort"
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Int64:
		return "int64"
	case UInt64:
		return "uint64"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case Compound:
		return "compound"
	case Enum:
		return "enum"
	case Opaque:
		return "opaque"
	case Vlen:
		return "vlen"
	default:
		return "unknown"
	}
}

// IsAtomic reports whether the kind is one of the closed atomic set.
func (k Kind) IsAtomic() bool {
	return k >= Byte && k <= String
}

var atomicKinds = map[engine.TypeID]Kind{
	engine.TypeByte:   Byte,
	engine.TypeUByte:  UByte,
	engine.TypeChar:   Char,
	engine.TypeShort:  Short,
	engine.TypeUShort: UShort,
	engine.TypeInt:    Int,
	engine.TypeUInt:   UInt,
	engine.TypeInt64:  Int64,
	engine.TypeUInt64: UInt64,
	engine.TypeFloat:  Float,
	engine.TypeDouble: Double,
	engine.TypeString: String,
}

var atomicIDs = func() map[Kind]engine.TypeID {
	m := make(map[Kind]engine.TypeID, len(atomicKinds))
	for id, k := range atomicKinds {
		m[k] = id
	}
	return m
}()

// kindFromNative maps an atomic native type id onto its Kind.
// Unrecognized ids are Unsupported rather than a panic.
func kindFromNative(op string, t engine.TypeID) (Kind, error) {
	if k, ok := atomicKinds[t]; ok {
		return k, nil
	}
	return Unknown, errors.Unsupported(op, fmt.Sprintf("native type id %d is not mapped", t))
}

// kindFromClass maps the class reported for a user-defined type.
func kindFromClass(op string, class engine.TypeID) (Kind, error) {
	switch class {
	case engine.ClassCompound:
		return Compound, nil
	case engine.ClassEnum:
		return Enum, nil
	case engine.ClassOpaque:
		return Opaque, nil
	case engine.ClassVlen:
		return Vlen, nil
	}
	return Unknown, errors.Unsupported(op, fmt.Sprintf("user type class %d is not mapped", class))
}

// nativeFromKind returns the native id an atomic kind stores as.
func nativeFromKind(op string, k Kind) (engine.TypeID, error) {
	if id, ok := atomicIDs[k]; ok {
		return id, nil
	}
	return engine.TypeNat, errors.Unsupported(op, fmt.Sprintf("kind %v has no atomic native type", k))
}

// UserType is an inert descriptor of a user-defined (compound, enum,
// opaque or vlen) type: the core carries it but never interprets it.
type UserType struct {
	name string
	id   engine.TypeID
	size uint64
	kind Kind
}

// Name returns the type's name.
func (t *UserType) Name() string { return t.name }

// Size returns the type's byte size.
func (t *UserType) Size() uint64 { return t.size }

// Kind returns Compound, Enum, Opaque or Vlen.
func (t *UserType) Kind() Kind { return t.kind }

// ID returns the native type id, for use with the engine surface.
func (t *UserType) ID() engine.TypeID { return t.id }
