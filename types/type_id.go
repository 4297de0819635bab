package types

type TypeID int

const (
	Invalid TypeID = iota
	Integer
	Varchar
)

// Size of the length prefix of a serialized Varchar.
const VarcharLengthPrefix = 4

// Size returns the serialized width of a value of this type. maxLen is only used by Varchar.
func (t TypeID) Size(maxLen uint32) uint32 {
	switch t {
	case Integer:
		return 4
	case Varchar:
		return VarcharLengthPrefix + maxLen
	}
	return 0
}

func (t TypeID) String() string {
	switch t {
	case Integer:
		return "int"
	case Varchar:
		return "string"
	}
	return "invalid"
}

// TypeIDFromString parses the names used by catalog files.
func TypeIDFromString(name string) TypeID {
	switch name {
	case "int", "integer":
		return Integer
	case "string", "varchar":
		return Varchar
	}
	return Invalid
}
