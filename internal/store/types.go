package store

// RoomItem represents a single room record from the upstream hotel API.
// Price and size arrive as decorated strings ("1,500", "50m²"); the parsed
// magnitudes are filled in by the catalog layer after fetch and never travel
// over the wire.
type RoomItem struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category_name"`
	Slug       string `json:"room_slug"`
	Capacity   int    `json:"capacity"`
	PriceRaw   string `json:"price_per_night"`
	SizeRaw    string `json:"room_size"`
	IsBooked   bool   `json:"is_booked"`
	Featured   bool   `json:"featured"`
	CoverImage string `json:"cover_image,omitempty"`

	PriceValue float64 `json:"-"`
	SizeValue  float64 `json:"-"`
}
