package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerFirst(t *testing.T) {
	cases := map[string]string{
		"Counter":        "counter",
		"ID":             "id",
		"URLPath":        "urlPath",
		"IncrementByTwo": "incrementByTwo",
		"SetId":          "setId",
		"already":        "already",
		"":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, LowerFirst(in), "LowerFirst(%q)", in)
	}
}

func TestMethodName(t *testing.T) {
	assert.Equal(t, "setCounter", MethodName("set", "counter"))
	assert.Equal(t, "removeFromItems", MethodName("removeFrom", "items"))
	assert.Equal(t, "clear", MethodName("clear", ""))
}

func TestTagName(t *testing.T) {
	assert.Equal(t, "items", TagName("items,omitempty"))
	assert.Equal(t, "", TagName(",omitempty"))
}
