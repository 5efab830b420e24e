package manifest

// >>>>>>>>>>>> this describes the layout facts written to the Go manifest >>>>>>>>>>>>

// Record is a table (vtable slots) or a fixed struct (size and alignment).
type Record struct {
	Name    string // Go name of the record
	Comment string
	Fixed   bool
	// fixed structs
	ByteSize int
	MinAlign int
	// tables
	Slots []Slot
}

// Slot is the vtable offset of one table field.
type Slot struct {
	Name   string // Go name of the field
	Offset int
}

type Alias struct {
	Name     string // alias type's name
	Comment  string // alias type's comment
	BaseType Type   // alias type's base type
}

type Enum struct {
	Alias
	Values []EnumValue
}

type EnumValue struct {
	Name  string
	Value int64
}

type Type struct {
	Name     string // Go integer type
	Unsigned bool
}
