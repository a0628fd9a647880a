package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"  Spaces   Everywhere  ", "spaces-everywhere"},
		{"Already-Hyphenated Title", "already-hyphenated-title"},
		{"UPPER case 123", "upper-case-123"},
		{"!!!", "post"},
		{"", "post"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.title), "title %q", tc.title)
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "my-post", WithSuffix("my-post", 0))
	assert.Equal(t, "my-post-1", WithSuffix("my-post", 1))
	assert.Equal(t, "my-post-7", WithSuffix("my-post", 7))
}
