// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

// DataType identifies the datatype of a resource as reported by the engine.
// The numeric values match the datatype IDs used on the native boundary.
type DataType uint8

// Datatype IDs of the native engine.
const (
	Unbound            DataType = 0
	BlankNode          DataType = 1
	IRIReference       DataType = 2
	Literal            DataType = 3
	AnyURI             DataType = 4
	String             DataType = 5
	PlainLiteral       DataType = 6
	Boolean            DataType = 7
	DateTime           DataType = 8
	DateTimeStamp      DataType = 9
	Time               DataType = 10
	Date               DataType = 11
	YearMonth          DataType = 12
	Year               DataType = 13
	MonthDay           DataType = 14
	Day                DataType = 15
	Month              DataType = 16
	Duration           DataType = 17
	YearMonthDuration  DataType = 18
	DayTimeDuration    DataType = 19
	Double             DataType = 20
	Float              DataType = 21
	Decimal            DataType = 22
	Integer            DataType = 23
	NonNegativeInteger DataType = 24
	NonPositiveInteger DataType = 25
	NegativeInteger    DataType = 26
	PositiveInteger    DataType = 27
	Long               DataType = 28
	Int                DataType = 29
	Short              DataType = 30
	Byte               DataType = 31
	UnsignedLong       DataType = 32
	UnsignedInt        DataType = 33
	UnsignedShort      DataType = 34
	UnsignedByte       DataType = 35
)

var dataTypeNames = [...]string{
	"unbound", "blank-node", "iri-reference", "literal", "any-uri",
	"string", "plain-literal", "boolean", "date-time", "date-time-stamp",
	"time", "date", "g-year-month", "g-year", "g-month-day",
	"g-day", "g-month", "duration", "year-month-duration", "day-time-duration",
	"double", "float", "decimal", "integer", "non-negative-integer",
	"non-positive-integer", "negative-integer", "positive-integer", "long", "int",
	"short", "byte", "unsigned-long", "unsigned-int", "unsigned-short",
	"unsigned-byte",
}

// DataTypeFromID validates a raw datatype ID received from the engine.
func DataTypeFromID(id uint8) (DataType, error) {
	if int(id) >= len(dataTypeNames) {
		return Unbound, errUnknownDataType(id)
	}
	return DataType(id), nil
}

// String returns a short lowercase name for the datatype.
func (dt DataType) String() string {
	if int(dt) < len(dataTypeNames) {
		return dataTypeNames[dt]
	}
	return "invalid"
}

// IsIRI reports whether values of this datatype are IRIs.
func (dt DataType) IsIRI() bool {
	return dt == AnyURI || dt == IRIReference
}

// IsString reports whether values of this datatype carry a plain string payload.
func (dt DataType) IsString() bool {
	return dt == String || dt == PlainLiteral
}

// IsBoolean reports whether values of this datatype are booleans.
func (dt DataType) IsBoolean() bool {
	return dt == Boolean
}

// IsSignedInteger reports whether values of this datatype are signed integers.
func (dt DataType) IsSignedInteger() bool {
	switch dt {
	case Int, Integer, NegativeInteger, NonPositiveInteger, Long, Short, Byte:
		return true
	}
	return false
}

// IsUnsignedInteger reports whether values of this datatype are unsigned integers.
func (dt DataType) IsUnsignedInteger() bool {
	switch dt {
	case PositiveInteger, NonNegativeInteger, UnsignedByte, UnsignedInt, UnsignedShort, UnsignedLong:
		return true
	}
	return false
}

// IsBlankNode reports whether values of this datatype are blank nodes.
func (dt DataType) IsBlankNode() bool {
	return dt == BlankNode
}

// IsTemporal reports whether values of this datatype are XSD date or time
// literals. Their lexical form is carried verbatim rather than parsed.
func (dt DataType) IsTemporal() bool {
	return dt >= DateTime && dt <= Month
}

// IsDuration reports whether values of this datatype are XSD duration literals.
func (dt DataType) IsDuration() bool {
	return dt >= Duration && dt <= DayTimeDuration
}

// IsDecimal reports whether values of this datatype are floating point or
// arbitrary precision decimal literals, carried in lexical form.
func (dt DataType) IsDecimal() bool {
	return dt == Double || dt == Float || dt == Decimal
}

// xsdName maps a datatype to the local name of the corresponding XSD type,
// used when rendering typed literals in Turtle. Empty for datatypes that do
// not render with an xsd: suffix.
func (dt DataType) xsdName() string {
	switch dt {
	case DateTime:
		return "dateTime"
	case DateTimeStamp:
		return "dateTimeStamp"
	case Time:
		return "time"
	case Date:
		return "date"
	case YearMonth:
		return "gYearMonth"
	case Year:
		return "gYear"
	case MonthDay:
		return "gMonthDay"
	case Day:
		return "gDay"
	case Month:
		return "gMonth"
	case Duration:
		return "duration"
	case YearMonthDuration:
		return "yearMonthDuration"
	case DayTimeDuration:
		return "dayTimeDuration"
	}
	return ""
}
