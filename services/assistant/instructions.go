package assistant

import (
	"fmt"
	"strings"

	"github.com/Infoya/FourSeasonsPOC/models"
)

// buildTurnMessage returns the text actually sent to the runtime. Simple
// requests pass through verbatim; complex multi-step requests are wrapped
// with an explicit instruction block enumerating the mandatory operation
// order so the runtime does not improvise its own.
func buildTurnMessage(input string, plan models.ExecutionPlan) string {
	if !plan.IsComplex() {
		return input
	}

	var sb strings.Builder
	sb.WriteString("The guest's request has multiple parts. Execute this plan strictly in order:\n")
	for i, step := range plan.Steps {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, step.Description))
		if len(step.Operations) > 0 {
			sb.WriteString(" (operations: " + strings.Join(step.Operations, ", ") + ")")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nRules:\n")
	sb.WriteString("- Confirm the property and dates with the guest before creating the booking, unless the guest stated them all explicitly.\n")
	sb.WriteString("- Only add items to the cart when the guest asked to add or include them. Show/list requests are display-only and must never modify the cart.\n")
	sb.WriteString("- Once the booking is created, continue with the remaining steps automatically; do not wait for further guest input.\n")

	if hints := fieldHints(plan.Fields); hints != "" {
		sb.WriteString("\nDetails already extracted from the request:\n" + hints)
	}

	sb.WriteString("\nGuest request: " + input)
	return sb.String()
}

func fieldHints(fields models.ExtractedFields) string {
	var lines []string
	if fields.Location != "" {
		lines = append(lines, "- location: "+fields.Location)
	}
	if fields.StartDate != "" {
		lines = append(lines, "- start date: "+fields.StartDate)
	}
	if fields.EndDate != "" {
		lines = append(lines, "- end date: "+fields.EndDate)
	}
	if fields.Guests > 0 {
		lines = append(lines, fmt.Sprintf("- guests: %d", fields.Guests))
	}
	if fields.RoomType != "" {
		lines = append(lines, "- room type: "+fields.RoomType)
	}
	if len(fields.Experiences) > 0 {
		lines = append(lines, "- requested experiences: "+strings.Join(fields.Experiences, ", "))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
