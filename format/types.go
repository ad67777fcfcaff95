package format

type (
	// Type is a BSON element type tag, the first byte of every encoded element.
	Type byte

	// CompressionType selects the codec applied to a document snapshot.
	CompressionType uint8
)

const (
	TypeEOO        Type = 0x00 // TypeEOO marks the end of a document.
	TypeDouble     Type = 0x01 // TypeDouble is a 64-bit IEEE-754 floating point.
	TypeString     Type = 0x02 // TypeString is a UTF-8 string with int32 length prefix.
	TypeObject     Type = 0x03 // TypeObject is an embedded document.
	TypeArray      Type = 0x04 // TypeArray is an embedded document with index keys.
	TypeBinary     Type = 0x05 // TypeBinary is length-prefixed bytes with a subtype byte.
	TypeUndefined  Type = 0x06 // TypeUndefined is the deprecated undefined value.
	TypeObjectID   Type = 0x07 // TypeObjectID is a 12-byte object id.
	TypeBool       Type = 0x08 // TypeBool is a single 0x00/0x01 byte.
	TypeDateTime   Type = 0x09 // TypeDateTime is UTC milliseconds as int64.
	TypeNull       Type = 0x0A // TypeNull has no value bytes.
	TypeRegex      Type = 0x0B // TypeRegex is two consecutive cstrings: pattern, options.
	TypeDBPointer  Type = 0x0C // TypeDBPointer is a string namespace plus a 12-byte id.
	TypeCode       Type = 0x0D // TypeCode is JavaScript code as a prefixed string.
	TypeSymbol     Type = 0x0E // TypeSymbol is the deprecated symbol string.
	TypeCodeWScope Type = 0x0F // TypeCodeWScope is code with a scope document.
	TypeInt32      Type = 0x10 // TypeInt32 is a 32-bit integer.
	TypeTimestamp  Type = 0x11 // TypeTimestamp is an internal uint64 timestamp.
	TypeInt64      Type = 0x12 // TypeInt64 is a 64-bit integer.
	TypeMinKey     Type = 0xFF // TypeMinKey sorts before all other values.
	TypeMaxKey     Type = 0x7F // TypeMaxKey sorts after all other values.

	CompressionNone CompressionType = 0x1 // CompressionNone stores the payload verbatim.
	CompressionZstd CompressionType = 0x2 // CompressionZstd uses Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 uses S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 uses LZ4 block compression.
)

// Composite reports whether the type contains child elements.
func (t Type) Composite() bool {
	return t == TypeObject || t == TypeArray
}

// Scalar reports whether the type is a leaf. CodeWScope carries an embedded
// scope document but is treated as an opaque leaf throughout the library.
func (t Type) Scalar() bool {
	return !t.Composite()
}

// Numeric reports whether the type is one of the three numeric types.
func (t Type) Numeric() bool {
	return t == TypeDouble || t == TypeInt32 || t == TypeInt64
}

// Integral reports whether the type is an integer type.
func (t Type) Integral() bool {
	return t == TypeInt32 || t == TypeInt64
}

// CanonicalRank maps the type onto the total order used by the comparator.
// Types with equal rank (the numerics, string/symbol) compare by value.
func (t Type) CanonicalRank() int {
	switch t {
	case TypeMinKey:
		return -1
	case TypeEOO, TypeUndefined:
		return 0
	case TypeNull:
		return 5
	case TypeDouble, TypeInt32, TypeInt64:
		return 10
	case TypeString, TypeSymbol:
		return 15
	case TypeObject:
		return 20
	case TypeArray:
		return 25
	case TypeBinary:
		return 30
	case TypeObjectID:
		return 35
	case TypeBool:
		return 40
	case TypeDateTime:
		return 45
	case TypeTimestamp:
		return 47
	case TypeRegex:
		return 50
	case TypeDBPointer:
		return 55
	case TypeCode:
		return 60
	case TypeCodeWScope:
		return 65
	case TypeMaxKey:
		return 127
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t {
	case TypeEOO:
		return "EOO"
	case TypeDouble:
		return "Double"
	case TypeString:
		return "String"
	case TypeObject:
		return "Object"
	case TypeArray:
		return "Array"
	case TypeBinary:
		return "Binary"
	case TypeUndefined:
		return "Undefined"
	case TypeObjectID:
		return "ObjectID"
	case TypeBool:
		return "Bool"
	case TypeDateTime:
		return "DateTime"
	case TypeNull:
		return "Null"
	case TypeRegex:
		return "Regex"
	case TypeDBPointer:
		return "DBPointer"
	case TypeCode:
		return "Code"
	case TypeSymbol:
		return "Symbol"
	case TypeCodeWScope:
		return "CodeWScope"
	case TypeInt32:
		return "Int32"
	case TypeTimestamp:
		return "Timestamp"
	case TypeInt64:
		return "Int64"
	case TypeMinKey:
		return "MinKey"
	case TypeMaxKey:
		return "MaxKey"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
