package languageutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"ko", "ko"},
		{"ko-KR,ko;q=0.9,en-US;q=0.8", "ko"},
		{"ja-JP", "ja"},
		{"zh-CN,zh;q=0.9", "zh"},
		{"en-GB", "en"},
		{"fr-FR,fr;q=0.9", "en"},
		{"", "en"},
		{"not a header", "en"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveLocale(tc.header), "header %q", tc.header)
	}
}

func TestRandomOutfitTitle(t *testing.T) {
	title := RandomOutfitTitle()
	parts := strings.Split(title, " ")
	assert.Len(t, parts, 2)
	assert.Equal(t, TitleCaser.String(title), title)
}
