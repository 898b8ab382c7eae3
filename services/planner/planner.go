package planner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Infoya/FourSeasonsPOC/models"
)

// Slot extraction is best-effort pattern matching; the first matching
// pattern per field wins and no disambiguation is attempted. The add-on
// patterns are triggered only by the verbs add/include/with. Show/list
// phrasings denote display-only intent and must never put anything in the
// cart.
var (
	dateToken = `((?:\d{4}-\d{2}-\d{2})|(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?)|(?:\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*))`

	dateRangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)from\s+` + dateToken + `\s+(?:to|till|until)\s+` + dateToken),
		regexp.MustCompile(`(?i)between\s+` + dateToken + `\s+and\s+` + dateToken),
		regexp.MustCompile(`(?i)check[\s-]?in\s+(?:on\s+)?` + dateToken + `.*?check[\s-]?out\s+(?:on\s+)?` + dateToken),
		regexp.MustCompile(dateToken + `\s*(?:-|–)\s*` + dateToken),
	}

	locationPattern = regexp.MustCompile(`\b(?:in|at)\s+((?:[A-Z][A-Za-z'-]*)(?:\s+[A-Z][A-Za-z'-]*)*)`)
	guestsPattern   = regexp.MustCompile(`(?i)(?:for\s+)?(\d+)\s+(?:guests?|people|persons?|adults?|pax)\b`)
	roomPattern     = regexp.MustCompile(`(?i)(?:\b([a-z]+)\s+)?\b(room|suite|villa|bungalow)\b`)
	addOnPattern    = regexp.MustCompile(`(?i)\b(?:add|include|with)\s+(?:a\s+|an\s+|the\s+)?([a-z][a-z ]*?)(?:\s+(?:in|at|from|to|for|between|on)\b|[.,!?;]|$)`)

	articles = map[string]bool{"a": true, "an": true, "the": true, "my": true, "your": true, "our": true}

	bookingKeywords = []string{"book", "booking", "check availability", "property", "room", "hotel", "reserve", "stay"}
)

// IsBookingRelated reports whether the utterance belongs to the booking
// flow. Anything else is a general question the assistant answers with
// web search instead of the booking tools.
func IsBookingRelated(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range bookingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Extractor recognizes booking slots in a raw utterance. The default is
// regex based; an LLM-backed implementation can be swapped in without
// touching plan construction.
type Extractor interface {
	Extract(input string) models.ExtractedFields
}

// RegexExtractor is the default pattern-matching Extractor.
type RegexExtractor struct{}

func (RegexExtractor) Extract(input string) models.ExtractedFields {
	return extract(input)
}

// Plan inspects a raw user utterance with the default extractor and
// produces the turn's execution plan. Pure function of the input text.
func Plan(input string) models.ExecutionPlan {
	return PlanWith(RegexExtractor{}, input)
}

// PlanWith builds the execution plan from the slots the given extractor
// recognizes.
func PlanWith(e Extractor, input string) models.ExecutionPlan {
	fields := e.Extract(input)

	if fields.Location == "" {
		return models.ExecutionPlan{
			Fields: fields,
			Steps: []models.PlanStep{
				{Priority: 1, Description: "handle request", Operations: nil},
			},
		}
	}

	steps := []models.PlanStep{
		{
			Priority:    1,
			Description: "resolve property, check availability and create the booking",
			Operations:  []string{"get_properties", "check_availability", "create_booking"},
		},
		{
			Priority:    2,
			Description: "fetch dining and experience options for the property",
			Operations:  []string{"get_dining_options", "get_experience_options"},
		},
	}
	if len(fields.Experiences) > 0 {
		steps = append(steps, models.PlanStep{
			Priority:    3,
			Description: "add the explicitly requested experiences to the cart",
			Operations:  []string{"add_addon"},
		})
	}
	steps = append(steps,
		models.PlanStep{
			Priority:    4,
			Description: "suggest further experiences the guest may like",
		},
		models.PlanStep{
			Priority:    5,
			Description: "summarize the cart",
			Operations:  []string{"get_cart"},
		},
	)

	return models.ExecutionPlan{Fields: fields, Steps: steps}
}

func extract(input string) models.ExtractedFields {
	var fields models.ExtractedFields

	for _, pattern := range dateRangePatterns {
		if m := pattern.FindStringSubmatch(input); m != nil {
			fields.StartDate = strings.TrimSpace(m[1])
			fields.EndDate = strings.TrimSpace(m[2])
			break
		}
	}

	if m := locationPattern.FindStringSubmatch(input); m != nil {
		fields.Location = strings.TrimSpace(m[1])
	}

	if m := guestsPattern.FindStringSubmatch(input); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			fields.Guests = n
		}
	}

	if m := roomPattern.FindStringSubmatch(input); m != nil {
		qualifier := strings.ToLower(m[1])
		if qualifier == "" || articles[qualifier] {
			fields.RoomType = strings.ToLower(m[2])
		} else {
			fields.RoomType = qualifier + " " + strings.ToLower(m[2])
		}
	}

	for _, m := range addOnPattern.FindAllStringSubmatch(input, -1) {
		name := strings.TrimSpace(m[1])
		if name != "" {
			fields.Experiences = append(fields.Experiences, name)
		}
	}

	return fields
}
