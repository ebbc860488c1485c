package jsondoc

// Type is the tag of a Value
type Type uint8

const (
	TypeNull Type = iota
	TypeBool
	TypeInt64
	TypeUint64
	TypeDouble
	TypeString
	TypeArray
	TypeObject
)

var typeNames = [...]string{
	TypeNull:   "null",
	TypeBool:   "bool",
	TypeInt64:  "int64",
	TypeUint64: "uint64",
	TypeDouble: "double",
	TypeString: "string",
	TypeArray:  "array",
	TypeObject: "object",
}

// String returns the lowercase name of the type
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsContainer reports whether values of this type carry a shared payload
func (t Type) IsContainer() bool {
	return t == TypeString || t == TypeArray || t == TypeObject
}

// IsNumber reports whether the type is one of the numeric tags
func (t Type) IsNumber() bool {
	return t == TypeInt64 || t == TypeUint64 || t == TypeDouble
}

// Share states reported by Refer
const (
	ReferNone   = -1 // no payload allocated
	ReferLeaked = 0  // a mutable element pointer was handed out; the next Copy clones
)
