package match

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	salaryNumber = regexp.MustCompile(`\b(\d+(?:\.\d+)?)(k\b)?`)
	// retirementPlan matches "401k" and "401(k)" benefit mentions.
	retirementPlan = regexp.MustCompile(`\b401\s*\(?k\)?`)
)

// maxSalary returns the largest figure in free-text salary, reading a
// trailing "k" as thousands. Currency and pay period are ignored, and digits
// glued to letters or a 401(k) mention are not figures.
func maxSalary(text string) (float64, bool) {
	text = strings.ToLower(text)
	text = strings.NewReplacer("$", " ", ",", "").Replace(text)
	text = retirementPlan.ReplaceAllString(text, " ")

	best, found := 0.0, false
	for _, m := range salaryNumber.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			value *= 1000
		}
		if !found || value > best {
			best, found = value, true
		}
	}
	return best, found
}
