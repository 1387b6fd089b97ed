// pkg/attributes/attributes.go

package attributes

import (
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// CustomPrefix marks a pool-defined attribute in the remote schema.
const CustomPrefix = "custom:"

// EmailAttribute is the attribute the create call reads back as the canonical username.
const EmailAttribute = "email"

// Attribute is a single name/value pair as the identity service stores it.
type Attribute struct {
	Name  string
	Value string
}

// SchemaAttribute is one entry of a pool's declared attribute schema.
type SchemaAttribute struct {
	Name    string
	Mutable bool
}

// User is the display form of a user record, keyed by attribute name with
// the custom prefix removed.
type User map[string]string

// DisplayName strips the custom prefix from an attribute name.
func DisplayName(name string) string {
	return strings.TrimPrefix(name, CustomPrefix)
}

// ToUser folds an ordered attribute list into a User. Later entries win when
// two names collapse onto the same display key.
func ToUser(attrs []Attribute) User {
	user := make(User, len(attrs))
	for _, attr := range attrs {
		user[DisplayName(attr.Name)] = attr.Value
	}
	return user
}

// FromAnswer turns a single-key prompt answer into an Attribute.
func FromAnswer(answer map[string]string) (Attribute, error) {
	if len(answer) != 1 {
		return Attribute{}, cerr.Newf("expected exactly one answer, got %d", len(answer))
	}
	for name, value := range answer {
		return Attribute{Name: name, Value: value}, nil
	}
	return Attribute{}, nil
}

// FilterMutable keeps the schema entries the directory allows to be updated.
func FilterMutable(schema []SchemaAttribute) []SchemaAttribute {
	mutable := make([]SchemaAttribute, 0, len(schema))
	for _, attr := range schema {
		if attr.Mutable {
			mutable = append(mutable, attr)
		}
	}
	return mutable
}

// Names returns the attribute names in schema order.
func Names(schema []SchemaAttribute) []string {
	names := make([]string, 0, len(schema))
	for _, attr := range schema {
		names = append(names, attr.Name)
	}
	return names
}

// Find returns the value of the first attribute called name.
func Find(attrs []Attribute, name string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}
