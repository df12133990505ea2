package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hanmeotapp/models"
)

// Sharer is the platform share sheet. Unavailable on most desktop browsers,
// which is why Share falls back to the clipboard.
type Sharer interface {
	Available() bool
	Share(title, text, url string) error
}

// Clipboard is the copy target of the share fallback.
type Clipboard interface {
	WriteText(text string) error
}

// ResultActions are the save/share/wishlist operations offered under a
// finished try-on image.
type ResultActions struct {
	Store     KeyValueStore
	Sharer    Sharer
	Clipboard Clipboard
	SaveDir   string
}

func NewResultActions(store KeyValueStore) *ResultActions {
	return &ResultActions{Store: store}
}

// SaveToDevice materializes the generated image and writes it as a
// timestamped PNG download. Data URIs are decoded in place; plain URLs are
// fetched. Returns the written path.
func (a *ResultActions) SaveToDevice(result models.GenerationResult) (string, error) {
	data, err := imageBytes(result.ImageURI)
	if err != nil {
		return "", fmt.Errorf("generated image is not downloadable: %v", err)
	}
	dir := a.SaveDir
	if dir == "" {
		dir = os.TempDir()
	}
	name := fmt.Sprintf("hanmeot-tryon-%d.png", time.Now().Unix())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("could not save image: %v", err)
	}
	return path, nil
}

func imageBytes(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return DecodeDataURI(uri)
	}
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return ReadFileFromUrl(uri)
	}
	return nil, fmt.Errorf("not an image reference: %q", uri)
}

// ShareOutcome tells the caller which channel carried the share, so the UI
// can word its confirmation accordingly.
type ShareOutcome string

const (
	SharedNatively     ShareOutcome = "shared"
	CopiedToClipboard  ShareOutcome = "copied"
	ShareFailedOutcome ShareOutcome = "failed"
)

// Share prefers the native share sheet and falls back to copying the page
// link. A user cancelling the native sheet is not an error.
func (a *ResultActions) Share(title, text, url string) (ShareOutcome, error) {
	if a.Sharer != nil && a.Sharer.Available() {
		if err := a.Sharer.Share(title, text, url); err == nil {
			return SharedNatively, nil
		}
	}
	if a.Clipboard != nil {
		if err := a.Clipboard.WriteText(url); err == nil {
			return CopiedToClipboard, nil
		}
	}
	return ShareFailedOutcome, fmt.Errorf("no share channel available")
}

// ToggleWishlist adds the outfit if absent and removes it if present.
// Returns whether the outfit is wishlisted after the call. Toggling twice
// always restores the starting state.
func (a *ResultActions) ToggleWishlist(deviceID, outfitID string) (bool, error) {
	ids, err := a.Wishlist(deviceID)
	if err != nil {
		return false, err
	}

	found := false
	next := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		if id == outfitID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, outfitID)
	}

	encoded, err := json.Marshal(next)
	if err != nil {
		return false, err
	}
	if err := a.Store.Set(deviceID, models.WishlistKey, string(encoded)); err != nil {
		return false, err
	}
	return !found, nil
}

// Wishlist returns the stored outfit ids. A missing or unreadable value is
// an empty wishlist.
func (a *ResultActions) Wishlist(deviceID string) ([]string, error) {
	raw, ok, err := a.Store.Get(deviceID, models.WishlistKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		fmt.Printf("[Wishlist] resetting corrupt value for device %v: %v\n", deviceID, err)
		return []string{}, nil
	}
	return ids, nil
}

// IsWishlisted reports membership without mutating anything.
func (a *ResultActions) IsWishlisted(deviceID, outfitID string) (bool, error) {
	ids, err := a.Wishlist(deviceID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == outfitID {
			return true, nil
		}
	}
	return false, nil
}
