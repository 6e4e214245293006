package engine

// Mode selects read-only or read-write access to a container.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// GroupID identifies an open group. The root group id doubles as the
// container handle: closing it closes the container.
type GroupID int32

// DimID identifies a dimension within a container. Dimension ids are
// container-scoped: a variable in a subgroup may reference a dimension
// id defined in an ancestor group.
type DimID int32

// VarID identifies a variable within one group.
type VarID int32

// GlobalAtt addresses group-global attributes in attribute calls.
const GlobalAtt VarID = -1

// TypeID is a native type identifier. Values below FirstUserType are
// the atomic types; user-defined types are assigned ids from
// FirstUserType upward.
type TypeID int32

// Atomic type ids, matching the classic netCDF numbering.
const (
	TypeNat    TypeID = 0
	TypeByte   TypeID = 1
	TypeChar   TypeID = 2
	TypeShort  TypeID = 3
	TypeInt    TypeID = 4
	TypeFloat  TypeID = 5
	TypeDouble TypeID = 6
	TypeUByte  TypeID = 7
	TypeUShort TypeID = 8
	TypeUInt   TypeID = 9
	TypeInt64  TypeID = 10
	TypeUInt64 TypeID = 11
	TypeString TypeID = 12
)

// User-defined type classes reported by InqUserType.
const (
	ClassVlen     TypeID = 13
	ClassOpaque   TypeID = 14
	ClassEnum     TypeID = 15
	ClassCompound TypeID = 16
)

// FirstUserType is the lowest id assigned to a user-defined type.
const FirstUserType TypeID = 32

// Engine is the call surface into the storage engine. Implementations
// are not required to be safe for concurrent use: every call must be
// made under the gate (see With).
//
// All methods return structured errors from the errors package;
// lookup misses by handle are KindNotFound, duplicate defines are
// KindAlreadyExists, and anything the backend cannot express is
// KindUnsupported.
type Engine interface {
	// Open opens an existing container. The returned GroupID is the
	// root group.
	Open(path string, mode Mode) (GroupID, error)
	// Create creates a container, overwriting existing content, open
	// for writing.
	Create(path string) (GroupID, error)
	// OpenMem opens a read-only container from an in-memory buffer.
	OpenMem(name string, buf []byte) (GroupID, error)
	// Close closes the container owning the given root group. Handles
	// derived from the container are invalid afterwards.
	Close(root GroupID) error

	GroupName(g GroupID) (string, error)
	Groups(g GroupID) ([]GroupID, error)
	DefineGroup(g GroupID, name string) (GroupID, error)

	DimIDs(g GroupID) ([]DimID, error)
	// InqDim returns a dimension's name and current length.
	InqDim(g GroupID, d DimID) (string, uint64, error)
	// DimLen returns the current length only; growable dimensions
	// report the highest written index plus one.
	DimLen(g GroupID, d DimID) (uint64, error)
	// UnlimitedDims returns the ids of growable dimensions visible in g.
	UnlimitedDims(g GroupID) ([]DimID, error)
	// DefineDim defines a dimension; length 0 makes it growable.
	DefineDim(g GroupID, name string, length uint64) (DimID, error)

	VarIDs(g GroupID) ([]VarID, error)
	InqVar(g GroupID, v VarID) (name string, t TypeID, dims []DimID, err error)
	DefineVar(g GroupID, name string, t TypeID, dims []DimID) (VarID, error)
	// PutVara writes a hyperslab. Writes past the end of a growable
	// dimension extend it.
	PutVara(g GroupID, v VarID, start, count []uint64, data any) error
	// GetVara reads a hyperslab previously written.
	GetVara(g GroupID, v VarID, start, count []uint64) (any, error)

	AttCount(g GroupID, v VarID) (int, error)
	AttName(g GroupID, v VarID, index int) (string, error)
	GetAtt(g GroupID, v VarID, name string) (value any, t TypeID, err error)
	// PutAtt writes or overwrites an attribute. Whether a re-put may
	// change the type is backend policy.
	PutAtt(g GroupID, v VarID, name string, value any) error

	// TypeIDs returns the user-defined type ids of a group.
	TypeIDs(g GroupID) ([]TypeID, error)
	// InqUserType returns a user type's name, byte size and class.
	InqUserType(g GroupID, t TypeID) (name string, size uint64, class TypeID, err error)
}
