package models

// Browser key-value keys mirrored by the userdata API. Absence of a key is
// "empty"/default, never an error.
const (
	WishlistKey    = "hanmeot_wishlist"
	GenderKey      = "hanmeot_gender"
	PreferencesKey = "hanmeot_preferences"
	OOTDProfileKey = "hanmeot_ootd_profile"
)

// UserDataEntry is one persisted key for one device. The value is the JSON
// encoding the browser would have kept in localStorage.
type UserDataEntry struct {
	JsonModel
	DeviceID string `gorm:"index:idx_device_key,unique" json:"-"`
	Key      string `gorm:"index:idx_device_key,unique" json:"key"`
	Value    string `gorm:"type:text" json:"value"`
}

// StylePreferences is the styled-preferences object saved from the profile
// screen.
type StylePreferences struct {
	Styles    []string `json:"styles"`
	Occasions []string `json:"occasions"`
	Colors    []string `json:"colors"`
	Budget    *string  `json:"budget"`
}

type WishlistToggleIn struct {
	OutfitID string `json:"outfit_id" validate:"required,max=100"`
}

type GenderIn struct {
	Gender string `json:"gender" validate:"required,oneof=male female other"`
}
