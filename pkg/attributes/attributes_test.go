package attributes

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asList(user User) []Attribute {
	keys := make([]string, 0, len(user))
	for k := range user {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]Attribute, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, Attribute{Name: k, Value: user[k]})
	}
	return attrs
}

func TestToUser(t *testing.T) {
	tests := []struct {
		name  string
		attrs []Attribute
		want  User
	}{
		{
			name:  "empty list",
			attrs: nil,
			want:  User{},
		},
		{
			name:  "custom prefix stripped",
			attrs: []Attribute{{Name: "custom:foo", Value: "bar"}},
			want:  User{"foo": "bar"},
		},
		{
			name: "built-in names kept",
			attrs: []Attribute{
				{Name: "sub", Value: "1234"},
				{Name: "email", Value: "u@x.com"},
				{Name: "custom:tenant", Value: "acme"},
			},
			want: User{"sub": "1234", "email": "u@x.com", "tenant": "acme"},
		},
		{
			name: "collision is last write wins",
			attrs: []Attribute{
				{Name: "nickname", Value: "first"},
				{Name: "custom:nickname", Value: "second"},
			},
			want: User{"nickname": "second"},
		},
		{
			name:  "prefix only stripped once",
			attrs: []Attribute{{Name: "custom:custom:x", Value: "v"}},
			want:  User{"custom:x": "v"},
		},
		{
			name:  "values are not coerced",
			attrs: []Attribute{{Name: "custom:age", Value: "007"}, {Name: "email_verified", Value: "true"}},
			want:  User{"age": "007", "email_verified": "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToUser(tt.attrs))
		})
	}
}

func TestToUser_IdempotentWithoutCollisions(t *testing.T) {
	attrs := []Attribute{
		{Name: "email", Value: "u@x.com"},
		{Name: "custom:foo", Value: "bar"},
		{Name: "given_name", Value: "Ulla"},
	}

	once := ToUser(attrs)
	twice := ToUser(asList(once))
	assert.Equal(t, once, twice)
}

func TestRoundTrip(t *testing.T) {
	user := ToUser([]Attribute{{Name: "custom:foo", Value: "bar"}})
	assert.Equal(t, User{"foo": "bar"}, user)

	attr, err := FromAnswer(map[string]string{"custom:foo": "bar"})
	require.NoError(t, err)
	assert.Equal(t, Attribute{Name: "custom:foo", Value: "bar"}, attr)
}

func TestFromAnswer_RejectsWrongShape(t *testing.T) {
	_, err := FromAnswer(map[string]string{})
	assert.Error(t, err)

	_, err = FromAnswer(map[string]string{"a": "1", "b": "2"})
	assert.Error(t, err)
}

func TestFromAnswer_EmptyValueAllowed(t *testing.T) {
	attr, err := FromAnswer(map[string]string{"nickname": ""})
	require.NoError(t, err)
	assert.Equal(t, Attribute{Name: "nickname"}, attr)
}

func TestFilterMutable(t *testing.T) {
	schema := []SchemaAttribute{
		{Name: "email", Mutable: false},
		{Name: "nickname", Mutable: true},
	}

	got := FilterMutable(schema)
	assert.Equal(t, []SchemaAttribute{{Name: "nickname", Mutable: true}}, got)
	assert.Equal(t, []string{"nickname"}, Names(got))
}

func TestFilterMutable_PreservesOrder(t *testing.T) {
	schema := []SchemaAttribute{
		{Name: "custom:b", Mutable: true},
		{Name: "sub", Mutable: false},
		{Name: "custom:a", Mutable: true},
	}
	assert.Equal(t, []string{"custom:b", "custom:a"}, Names(FilterMutable(schema)))
}

func TestFind(t *testing.T) {
	attrs := []Attribute{{Name: "sub", Value: "1"}, {Name: "email", Value: "u@x.com"}}

	v, ok := Find(attrs, EmailAttribute)
	assert.True(t, ok)
	assert.Equal(t, "u@x.com", v)

	_, ok = Find(attrs, "phone_number")
	assert.False(t, ok)
}
