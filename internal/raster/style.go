package raster

// Style is the RGBA stroke color and width a path is drawn with.
type Style struct {
	R, G, B, A  uint8
	StrokeWidth float64
}

// rule matches a path carrying the given tag key, regardless of its value.
type rule struct {
	key   string
	style Style
}

// precedence lists tag-key rules in priority order: the first rule whose
// key appears among a path's tags wins, independent of the order the tags
// themselves were declared in.
var precedence = []rule{
	{key: "building", style: Style{R: 20, G: 100, B: 20, A: 200, StrokeWidth: 1.0}},
	{key: "power", style: Style{R: 0, G: 100, B: 255, A: 150, StrokeWidth: 1.0}},
	{key: "highway", style: Style{R: 255, G: 150, B: 20, A: 200, StrokeWidth: 1.0}},
}

// TagPair mirrors tilecodec.TagPair so this package does not need to import
// tilecodec just for a two-field struct.
type TagPair struct {
	KeyID uint64
	ValID uint64
}

// StyleForTags resolves tags's key ids to text via resolveKey and returns
// the style of the first precedence rule whose key is present. The second
// return value is false when no rule matches — the path carries no
// recognized key and must not be drawn.
func StyleForTags(tags []TagPair, resolveKey func(id uint64) (string, bool)) (Style, bool) {
	keys := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if text, ok := resolveKey(tag.KeyID); ok {
			keys[text] = true
		}
	}
	for _, r := range precedence {
		if keys[r.key] {
			return r.style, true
		}
	}
	return Style{}, false
}
