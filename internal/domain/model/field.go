package model

import (
	"fmt"
	"strings"
)

// Field names a listable character column. Only the values declared below
// are valid; Column is the sole path by which a field reaches SQL.
type Field string

// Known fields.
const (
	FieldName     Field = "name"
	FieldStatus   Field = "status"
	FieldSpecies  Field = "species"
	FieldSubtype  Field = "subtype"
	FieldGender   Field = "gender"
	FieldOrigin   Field = "origin"
	FieldLocation Field = "location"
)

var knownFields = map[Field]string{
	FieldName:     "name",
	FieldStatus:   "status",
	FieldSpecies:  "species",
	FieldSubtype:  "subtype",
	FieldGender:   "gender",
	FieldOrigin:   "origin",
	FieldLocation: "location",
}

// ParseField maps user input such as "Species" to a Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// Valid reports whether f is one of the declared fields.
func (f Field) Valid() bool {
	_, ok := knownFields[f]
	return ok
}

// Column returns the storage column for f, or an error for unknown fields.
func (f Field) Column() (string, error) {
	col, ok := knownFields[f]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return col, nil
}

// ValueOf returns the value of f on c.
func (f Field) ValueOf(c Character) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldStatus:
		return c.Status
	case FieldSpecies:
		return c.Species
	case FieldSubtype:
		return c.Subtype
	case FieldGender:
		return c.Gender
	case FieldOrigin:
		return c.Origin
	case FieldLocation:
		return c.Location
	default:
		return ""
	}
}

func (f Field) String() string { return string(f) }
