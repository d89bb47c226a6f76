package model

// AssetID uniquely identifies an asset
type AssetID string

// AssetType classifies a supporting file
type AssetType string

const (
	AssetTypeImage AssetType = "image"
	AssetTypeFont  AssetType = "font"
	AssetTypeOther AssetType = "other"
)

// Asset is a supporting file (image, font) attached to a game. Assets are
// deleted with the game but survive a reset. The URL points at external
// blob storage; this core never fetches or purges it.
type Asset struct {
	ID        AssetID
	GameID    GameID
	ShortCode string // Short code for easy insertion into entries
	Name      string
	URL       string
	Type      AssetType
}

// AssetPatch is a partial update to an asset's mutable fields.
// Nil fields are left untouched.
type AssetPatch struct {
	Name *string
	URL  *string
}

// Apply writes the provided fields onto the asset
func (p AssetPatch) Apply(a *Asset) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.URL != nil {
		a.URL = *p.URL
	}
}
