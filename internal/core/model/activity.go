package model

// Activity maps a human-readable fraud-activity label to the local name
// of the corresponding class in the GFO namespace.
type Activity struct {
	Label string `json:"label" toml:"label"`
	Class string `json:"class" toml:"class"`
}
