package services

import (
	"fmt"
	"net/url"
	"strings"

	"hanmeotapp/models"
)

// placeholderBase renders a branded stand-in tile when a garment has no
// usable image.
const placeholderBase = "https://placehold.co/400x400/FFF0F5/FF2D78"

// PlaceholderImageURL builds the fallback tile for a garment, labelled with
// its display name so the outfit list stays readable.
func PlaceholderImageURL(displayName string) string {
	label := strings.TrimSpace(displayName)
	if label == "" {
		label = "Item"
	}
	return fmt.Sprintf("%s?text=%s", placeholderBase, url.QueryEscape(label))
}

// ResolveGarmentImageURL picks the garment's own image when it looks like a
// fetchable URL and falls back to the placeholder otherwise.
func ResolveGarmentImageURL(garment models.GarmentDescriptor) string {
	if garment.ImageReference == nil {
		return PlaceholderImageURL(garment.DisplayName)
	}
	ref := strings.TrimSpace(*garment.ImageReference)
	if ref == "" {
		return PlaceholderImageURL(garment.DisplayName)
	}
	if strings.HasPrefix(ref, "data:image/") {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return PlaceholderImageURL(garment.DisplayName)
	}
	return ref
}
