package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"hanmeotapp/models"
	"hanmeotapp/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSharer struct {
	available bool
	err       error
	calls     int
}

func (f *fakeSharer) Available() bool { return f.available }
func (f *fakeSharer) Share(title, text, url string) error {
	f.calls++
	return f.err
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestToggleWishlistRoundTrip(t *testing.T) {
	actions := NewResultActions(NewMemoryStore())

	wishlisted, err := actions.ToggleWishlist("device-1", "outfit-42")
	require.NoError(t, err)
	assert.True(t, wishlisted)

	member, err := actions.IsWishlisted("device-1", "outfit-42")
	require.NoError(t, err)
	assert.True(t, member)

	wishlisted, err = actions.ToggleWishlist("device-1", "outfit-42")
	require.NoError(t, err)
	assert.False(t, wishlisted)

	ids, err := actions.Wishlist("device-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestToggleWishlistKeepsOtherEntries(t *testing.T) {
	actions := NewResultActions(NewMemoryStore())

	_, err := actions.ToggleWishlist("device-1", "outfit-1")
	require.NoError(t, err)
	_, err = actions.ToggleWishlist("device-1", "outfit-2")
	require.NoError(t, err)
	_, err = actions.ToggleWishlist("device-1", "outfit-1")
	require.NoError(t, err)

	ids, err := actions.Wishlist("device-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"outfit-2"}, ids)
}

func TestWishlistIsScopedPerDevice(t *testing.T) {
	actions := NewResultActions(NewMemoryStore())

	_, err := actions.ToggleWishlist("device-1", "outfit-1")
	require.NoError(t, err)

	ids, err := actions.Wishlist("device-2")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestWishlistSurvivesCorruptValue(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("device-1", models.WishlistKey, "{not json"))
	actions := NewResultActions(store)

	ids, err := actions.Wishlist("device-1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	wishlisted, err := actions.ToggleWishlist("device-1", "outfit-9")
	require.NoError(t, err)
	assert.True(t, wishlisted)
}

func TestSaveToDeviceWritesDecodablePng(t *testing.T) {
	actions := NewResultActions(NewMemoryStore())
	actions.SaveDir = t.TempDir()

	path, err := actions.SaveToDevice(models.GenerationResult{ImageURI: test.TinyPngDataURI})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	photo, err := NewPhotoAsset(data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.MimeType)
}

func TestSaveToDeviceFetchesRemoteImage(t *testing.T) {
	photo := test.TinyPhoto().Data
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(photo)
	}))
	defer server.Close()

	actions := NewResultActions(NewMemoryStore())
	actions.SaveDir = t.TempDir()

	path, err := actions.SaveToDevice(models.GenerationResult{ImageURI: server.URL + "/look.png"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, photo, data)
}

func TestSaveToDeviceRejectsNonImageReference(t *testing.T) {
	actions := NewResultActions(NewMemoryStore())
	actions.SaveDir = t.TempDir()

	_, err := actions.SaveToDevice(models.GenerationResult{ImageURI: "not an image at all"})
	assert.Error(t, err)
}

func TestSharePrefersNativeSheet(t *testing.T) {
	actions := NewResultActions(NewMemoryStore())
	sharer := &fakeSharer{available: true}
	clipboard := &fakeClipboard{}
	actions.Sharer = sharer
	actions.Clipboard = clipboard

	outcome, err := actions.Share("Hanmeot", "Check my look", "https://hanmeot.app/tryon/1")
	require.NoError(t, err)
	assert.Equal(t, SharedNatively, outcome)
	assert.Equal(t, 1, sharer.calls)
	assert.Empty(t, clipboard.text)
}

func TestShareFallsBackToClipboard(t *testing.T) {
	actions := NewResultActions(NewMemoryStore())
	actions.Sharer = &fakeSharer{available: false}
	clipboard := &fakeClipboard{}
	actions.Clipboard = clipboard

	outcome, err := actions.Share("Hanmeot", "Check my look", "https://hanmeot.app/tryon/1")
	require.NoError(t, err)
	assert.Equal(t, CopiedToClipboard, outcome)
	assert.Equal(t, "https://hanmeot.app/tryon/1", clipboard.text)
}

func TestShareFailsWithoutAnyChannel(t *testing.T) {
	actions := NewResultActions(NewMemoryStore())
	actions.Sharer = &fakeSharer{available: true, err: errors.New("sheet dismissed")}
	actions.Clipboard = &fakeClipboard{err: errors.New("denied")}

	outcome, err := actions.Share("Hanmeot", "Check my look", "https://hanmeot.app/tryon/1")
	assert.Error(t, err)
	assert.Equal(t, ShareFailedOutcome, outcome)
}
