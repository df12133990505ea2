package languageutil

import (
	"math/rand"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TitleCaser = cases.Title(language.English)
var LowerCaser = cases.Lower(language.English)

// supported mirrors the app locales, English first so it wins as the
// fallback of the matcher.
var supported = []language.Tag{
	language.English,
	language.Korean,
	language.Japanese,
	language.Chinese,
}

var matcher = language.NewMatcher(supported)

// ResolveLocale canonicalizes an Accept-Language header (or a raw locale
// string) to one of en/ko/ja/zh. Anything unrecognized becomes "en".
func ResolveLocale(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, index, _ := matcher.Match(tags...)
	base, _ := supported[index].Base()
	return base.String()
}

var Adjs []string = []string{
	"breezy",
	"bold",
	"casual",
	"cozy",
	"crisp",
	"dreamy",
	"effortless",
	"elegant",
	"fresh",
	"laidback",
	"layered",
	"minimal",
	"modern",
	"polished",
	"playful",
	"retro",
	"sleek",
	"soft",
	"sporty",
	"vivid",
}

var Nouns []string = []string{
	"look",
	"ensemble",
	"outfit",
	"fit",
	"mood",
	"combo",
	"style",
	"silhouette",
	"wardrobe",
	"capsule",
}

// RandomOutfitTitle names an unnamed saved outfit, e.g. "Breezy Look".
func RandomOutfitTitle() string {
	adj := Adjs[rand.Intn(len(Adjs))]
	noun := Nouns[rand.Intn(len(Nouns))]
	return TitleCaser.String(adj + " " + noun)
}
