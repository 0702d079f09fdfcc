package maps

import (
	"regexp"
	"strings"
)

// Plus codes look like "8Q7X+GF" or "MJ75+HV2"; they are precise but mean
// nothing to a person reading a dashboard, so they are stripped from any
// address we display.
var plusCodeRe = regexp.MustCompile(`^[23456789CFGHJMPQRVWX]{2,8}\+[23456789CFGHJMPQRVWX]{2,3}$`)

// CleanAddress removes plus-code tokens from a formatted address, leaving
// the human-readable parts intact. An address that is nothing but a plus
// code becomes empty; callers fall back to a region label in that case.
func CleanAddress(address string) string {
	if address == "" {
		return ""
	}

	parts := strings.Split(address, ",")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		// A segment may lead with a plus code ("MJ75+HV Springfield")
		fields := strings.Fields(trimmed)
		if len(fields) > 0 && plusCodeRe.MatchString(fields[0]) {
			fields = fields[1:]
		}
		if len(fields) == 0 {
			continue
		}
		kept = append(kept, strings.Join(fields, " "))
	}

	return strings.Join(kept, ", ")
}
