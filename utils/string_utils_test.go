package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Signage", "acme-signage"},
		{"  Alex's Organization  ", "alex-s-organization"},
		{"Store #42 / Downtown", "store-42-downtown"},
		{"---", ""},
		{"已有中文 Name", "已有中文-name"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "Slugify(%q)", c.in)
	}
}
