package jsonpath

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestGetPath_MissingComponents(t *testing.T) {
	doc := decode(t, `{"request":{"header":{"sessionId":"abc","appType":null},"payload":{"login":{"userName":"Janine","count":0}}}}`)

	assert.NotNil(t, GetPath(doc, "request"))
	assert.Equal(t, "abc", GetPath(doc, "request.header.sessionId"))
	assert.Equal(t, 0.0, GetPath(doc, "request.payload.login.count"))
	assert.Nil(t, GetPath(doc, "request.header.appType"), "null leaf")
	assert.Nil(t, GetPath(doc, "request.header.appType.more"), "null intermediate")
	assert.Nil(t, GetPath(doc, "request.payload.missing"))
	assert.Nil(t, GetPath(doc, "request.header.sessionId.length"), "string is not an object")
	assert.Nil(t, GetPath(nil, "request"))
}

func TestGetPathAndString(t *testing.T) {
	doc := decode(t, `{"a":{"b":{"c":"value","n":12.5}}}`)

	assert.Equal(t, "value", GetPath(doc, "a.b.c"))
	assert.Equal(t, 12.5, GetPath(doc, "a.b.n"))
	assert.Nil(t, GetPath(doc, "a.x"))

	s, ok := GetString(doc, "a.b.c")
	assert.True(t, ok)
	assert.Equal(t, "value", s)
	_, ok = GetString(doc, "a.b.n")
	assert.False(t, ok)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   \t\n"))
	assert.False(t, IsBlank(" x "))
	assert.False(t, IsBlank(0))
	assert.False(t, IsBlank(false))
	assert.False(t, IsBlank(map[string]interface{}{}))
	assert.False(t, IsBlank([]interface{}{}))
}

func TestIsPresent(t *testing.T) {
	doc := decode(t, `{"p":{"title":"  ","latitude":0,"note":"done"}}`)
	assert.False(t, IsPresent(doc, "p.title"))
	assert.True(t, IsPresent(doc, "p.latitude"))
	assert.True(t, IsPresent(doc, "p.note"))
	assert.False(t, IsPresent(doc, "p.photo"))
}
