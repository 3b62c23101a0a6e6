package availability

// Slot-type labels are an open, clinic-defined set; unknown labels resolve to
// one stable default so booking and reschedule views render consistently.
const defaultIcon = "🦷"

var slotTypeIcons = map[string]string{
	"Morning Consultations": "🌅",
	"Afternoon Procedures":  "🏥",
	"Evening Consultations": "🌆",
	"Surgery":               "🔬",
	"Orthodontics":          "😁",
	"Cleaning & Hygiene":    "🪥",
	"Emergency":             "🚨",
}

// IconFor maps a slot-type label to its display icon.
func IconFor(slotType string) string {
	if icon, ok := slotTypeIcons[slotType]; ok {
		return icon
	}
	return defaultIcon
}
