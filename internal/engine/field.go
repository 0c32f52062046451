package engine

import (
	"strings"

	"github.com/roach88/sellbot/internal/model"
)

// Field is an editable product field.
type Field int

const (
	FieldPrice Field = iota + 1
	FieldUsername
	FieldPassword
	FieldSecret
	FieldName
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldPrice, FieldUsername, FieldPassword, FieldSecret, FieldName}

// String returns the field's wire name.
func (f Field) String() string {
	switch f {
	case FieldPrice:
		return "price"
	case FieldUsername:
		return "username"
	case FieldPassword:
		return "password"
	case FieldSecret:
		return "secret"
	case FieldName:
		return "name"
	}
	return "invalid"
}

// ParseField maps a wire name to a Field. Unknown names return ErrInvalidField.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "price":
		return FieldPrice, nil
	case "username":
		return FieldUsername, nil
	case "password":
		return FieldPassword, nil
	case "secret":
		return FieldSecret, nil
	case "name":
		return FieldName, nil
	}
	return 0, &Error{Code: CodeInvalidField, Message: "field " + name + " is not editable"}
}

// apply overwrites the field on p. It returns false for values outside
// the enum, leaving p untouched.
func (f Field) apply(p *model.Product, value string) bool {
	switch f {
	case FieldPrice:
		p.Price = value
	case FieldUsername:
		p.Username = value
	case FieldPassword:
		p.Password = value
	case FieldSecret:
		p.Secret = value
	case FieldName:
		// "-" clears the display name, as in the add-product dialog.
		if value == "-" {
			value = ""
		}
		p.Name = value
	default:
		return false
	}
	return true
}
