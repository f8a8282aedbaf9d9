package bloodrequest

import (
	"fmt"
	"strings"

	"github.com/bloodlink/bloodlink/core"
)

var urgencyMarkers = map[core.Urgency]string{
	core.UrgencyEmergency: "🚨",
	core.UrgencyHigh:      "⚠️",
	core.UrgencyNormal:    "🩸",
}

// ComposeMessage renders the donor notification for a blood request.
func ComposeMessage(urgency core.Urgency, centerName string, bloodType core.BloodType, unitsNeeded int, location, procedure string) string {
	marker, ok := urgencyMarkers[urgency]
	if !ok {
		marker = "🩸"
	}

	lines := []string{
		marker + " BLOOD NEEDED!",
		"",
		"🏥 Health Center: " + centerName,
		"🩸 Blood Type: " + string(bloodType),
		fmt.Sprintf("📊 Units Needed: %d", unitsNeeded),
		"⏰ Urgency: " + string(urgency),
		"🏠 Location: " + location,
	}
	if procedure != "" {
		lines = append(lines, "📋 Procedure: "+procedure)
	}
	lines = append(lines,
		"",
		"If you're available to donate, please contact the health center immediately!",
		"",
		"Thank you for being a life-saver! ❤️",
	)
	return strings.Join(lines, "\n")
}
