package models

// Frame is one renderable map layer: every cell for one (species, hour) at
// the session's current resolution tier.
type Frame struct {
	Species string `json:"species"`
	Hour    int    `json:"hour"`
	Date    string `json:"date"`
	Tier    int    `json:"tier"`
	Cells   []Cell `json:"cells"`
}
