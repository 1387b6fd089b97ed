package output

import (
	"bytes"
	"testing"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/attributes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Preview("pool1", "u@x.com", []attributes.Attribute{
		{Name: "nickname", Value: "ulla"},
		{Name: "custom:tenant", Value: "acme"},
	})

	assert.Equal(t,
		"nickname ===> ulla\ncustom:tenant ===> acme\nUser Pool Id: pool1\nusername: u@x.com\n",
		buf.String())
}

func TestPreview_NoModifications(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Preview("pool1", "u@x.com", nil)
	assert.Equal(t, "User Pool Id: pool1\nusername: u@x.com\n", buf.String())
}

func TestSuccess(t *testing.T) {
	var buf bytes.Buffer
	user := attributes.User{"email": "u@x.com", "tenant": "acme", "sub": "1234"}

	require.NoError(t, NewReporter(&buf).Success(user))

	out := buf.String()
	assert.Contains(t, out, SuccessBanner)

	var parsed map[string]string
	_, record, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	require.NoError(t, yaml.Unmarshal(record, &parsed))
	assert.Equal(t, map[string]string(user), parsed)
}

func TestCancelled(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Cancelled()
	assert.Equal(t, CancelNotice+"\n", buf.String())
}
