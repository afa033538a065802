package services

import (
	"regexp"
	"strconv"
	"strings"

	"rental-marketplace-api/models"
)

// ScoreBreakdown is the output of the scoring engine. Regenerable at any
// time from the application content; the stored copy is not the truth.
type ScoreBreakdown struct {
	IncomeScore        int      `json:"income_score"`
	CreditScore        int      `json:"credit_score"`
	RentalHistoryScore int      `json:"rental_history_score"`
	EmploymentScore    int      `json:"employment_score"`
	DocumentsScore     int      `json:"documents_score"`
	TotalScore         int      `json:"total_score"`
	MaxScore           int      `json:"max_score"`
	Flags              []string `json:"flags"`
}

// ToJSONMap converts the breakdown for storage in the score_breakdown column.
func (b ScoreBreakdown) ToJSONMap() models.JSONMap {
	flags := make([]interface{}, len(b.Flags))
	for i, f := range b.Flags {
		flags[i] = f
	}
	return models.JSONMap{
		"income_score":         b.IncomeScore,
		"credit_score":         b.CreditScore,
		"rental_history_score": b.RentalHistoryScore,
		"employment_score":     b.EmploymentScore,
		"documents_score":      b.DocumentsScore,
		"total_score":          b.TotalScore,
		"max_score":            b.MaxScore,
		"flags":                flags,
	}
}

// requiredDocuments is the set counted by the documents sub-score.
var requiredDocuments = []string{"id", "proof_of_income", "employment_verification"}

var (
	yearsPattern  = regexp.MustCompile(`(\d+)\s*(?:years?|yrs?)`)
	monthsPattern = regexp.MustCompile(`(\d+)\s*(?:months?|mos?)`)
	barePattern   = regexp.MustCompile(`^\s*(\d+)\s*$`)
)

// ScoreApplication computes the point breakdown for an application plus its
// co-applicants. Pure function: no I/O, no clock, no randomness. Every
// malformed numeric input parses to zero rather than failing.
func ScoreApplication(app *models.Application, coApplicants []models.CoApplicant) ScoreBreakdown {
	breakdown := ScoreBreakdown{MaxScore: 100, Flags: []string{}}

	breakdown.IncomeScore = scoreIncome(app, coApplicants, &breakdown.Flags)
	breakdown.CreditScore = scoreCredit(app, &breakdown.Flags)
	breakdown.RentalHistoryScore = scoreRentalHistory(app, &breakdown.Flags)
	breakdown.EmploymentScore = scoreEmployment(app, &breakdown.Flags)
	breakdown.DocumentsScore = scoreDocuments(app, &breakdown.Flags)

	breakdown.TotalScore = breakdown.IncomeScore + breakdown.CreditScore +
		breakdown.RentalHistoryScore + breakdown.EmploymentScore + breakdown.DocumentsScore
	return breakdown
}

func scoreIncome(app *models.Application, coApplicants []models.CoApplicant, flags *[]string) int {
	total := numberField(app.Employment, "monthlyIncome", "monthly_income")
	for _, co := range coApplicants {
		total += co.MonthlyIncome
	}

	switch {
	case total >= 5000:
		return 25
	case total >= 4000:
		return 22
	case total >= 3000:
		return 18
	case total >= 2000:
		return 12
	case total > 0:
		*flags = append(*flags, "low_income")
		return 5
	default:
		*flags = append(*flags, "no_income_provided")
		return 0
	}
}

// scoreCredit is a proxy: an SSN on file stands in for a passed credit
// check. There is no bureau integration.
func scoreCredit(app *models.Application, flags *[]string) int {
	if boolField(app.PersonalInfo, "ssnProvided") || hasField(app.PersonalInfo, "ssn") {
		return 20
	}
	*flags = append(*flags, "no_credit_check")
	return 10
}

func scoreRentalHistory(app *models.Application, flags *[]string) int {
	years := parseDurationYears(stringField(app.RentalHistory, "yearsRenting", "years_renting", "duration", "years"))

	var score int
	switch {
	case years >= 3:
		score = 20
	case years >= 2:
		score = 16
	case years >= 1:
		score = 12
	case years > 0:
		score = 8
	default:
		score = 5
		*flags = append(*flags, "limited_rental_history")
	}

	if boolField(app.RentalHistory, "hasEviction") || boolField(app.RentalHistory, "evicted") {
		score -= 15
		if score < 0 {
			score = 0
		}
		*flags = append(*flags, "previous_eviction")
	}
	return score
}

func scoreEmployment(app *models.Application, flags *[]string) int {
	employed := true
	if v, ok := app.Employment["employed"]; ok {
		if b, isBool := v.(bool); isBool && !b {
			employed = false
		}
	}
	if strings.EqualFold(stringField(app.Employment, "status"), "unemployed") {
		employed = false
	}

	if !employed {
		*flags = append(*flags, "unemployed")
		return 3
	}

	years := parseDurationYears(stringField(app.Employment, "yearsEmployed", "years_employed", "duration", "employmentLength"))
	switch {
	case years >= 2:
		return 15
	case years >= 1:
		return 12
	default:
		return 8
	}
}

func scoreDocuments(app *models.Application, flags *[]string) int {
	uploaded := 0
	verified := 0
	for _, doc := range requiredDocuments {
		status, _ := app.DocumentStatus[doc].(map[string]interface{})
		if hasField(app.Documents, doc) || boolField(models.JSONMap(status), "uploaded") {
			uploaded++
		}
		if boolField(models.JSONMap(status), "verified") {
			verified++
		}
	}

	if verified >= 3 {
		return 15
	}
	switch {
	case uploaded >= 3:
		return 12
	case uploaded >= 2:
		return 8
	case uploaded >= 1:
		return 5
	default:
		*flags = append(*flags, "missing_documents")
		return 0
	}
}

// parseDurationYears extracts whole years from free-text like "2 years" or
// "18 months". The month fallback only applies when no year token matched,
// so "1 year 6 months" never double counts. Months divide by twelve and
// floor. A bare number reads as years.
func parseDurationYears(raw string) float64 {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return 0
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return n
	}
	if m := monthsPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return float64(int(n) / 12)
	}
	if m := barePattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return n
	}
	return 0
}

// numberField parses the first present key as a float, tolerating string
// and numeric JSON values. Unparseable values count as zero.
func numberField(m models.JSONMap, keys ...string) float64 {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case string:
			cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
			if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return parsed
			}
			return 0
		}
	}
	return 0
}

func stringField(m models.JSONMap, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s, isStr := v.(string); isStr && s != "" {
				return s
			}
		}
	}
	return ""
}

func boolField(m models.JSONMap, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	}
	return false
}

func hasField(m models.JSONMap, key string) bool {
	v, ok := m[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}
