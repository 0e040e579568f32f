package studio

import "errors"

// Studio represents a bookable room. The catalog is fixed reference data:
// two physical rooms plus the offsite pseudo-studio used for external
// venues, which is not bound to the weekday booking window.
type Studio struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Color    string `json:"color"`
	Offsite  bool   `json:"offsite"`
}

// Catalog ids.
const (
	BigHall   = "studio-1-big"
	SmallHall = "studio-2-small"
	Offsite   = "studio-offsite"
)

var ErrStudioNotFound = errors.New("studio not found")

var catalog = []Studio{
	{ID: BigHall, Name: "Big Hall", Capacity: 30, Color: "#7C3AED", Offsite: false},
	{ID: SmallHall, Name: "Small Hall", Capacity: 12, Color: "#2563EB", Offsite: false},
	{ID: Offsite, Name: "Offsite", Capacity: 200, Color: "#059669", Offsite: true},
}

// All returns the full studio catalog in display order.
func All() []Studio {
	out := make([]Studio, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the studio with the given id.
func Get(id string) (Studio, error) {
	for _, s := range catalog {
		if s.ID == id {
			return s, nil
		}
	}
	return Studio{}, ErrStudioNotFound
}

// Exists reports whether id names a catalog studio.
func Exists(id string) bool {
	_, err := Get(id)
	return err == nil
}
