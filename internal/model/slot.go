package model

// Slot is one bookable unit of a doctor's schedule on a given date. Slots are
// created server-side; this service only classifies and displays them.
type Slot struct {
	ID          string `json:"id"`
	StartTime   string `json:"startTime"`   // 12-hour display form
	EndTime     string `json:"endTime"`     // 12-hour display form
	StartTime24 string `json:"startTime24"` // canonical HH:MM
	EndTime24   string `json:"endTime24"`   // canonical HH:MM
	Type        string `json:"type"`
	IsAvailable bool   `json:"isAvailable"`
}

// SlotView is a Slot enriched with presentation metadata for the UI.
type SlotView struct {
	Slot
	Icon string `json:"icon"`
}
