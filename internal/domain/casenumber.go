package domain

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

var caseNumberRE = regexp.MustCompile(`^CN-\d{4}-\d{6}$`)

// caseDigits returns the random part of a case number. Tests replace it.
var caseDigits = func() int { return rand.IntN(1_000_000) }

// NewCaseNumber formats a case number "CN-<year>-<6 digits>" for the year of now.
func NewCaseNumber(now time.Time) string {
	return fmt.Sprintf("CN-%04d-%06d", now.Year(), caseDigits())
}

// ValidCaseNumber reports whether s has the case number shape.
func ValidCaseNumber(s string) bool { return caseNumberRE.MatchString(s) }
