// Package transcript converts import files into course record drafts and
// renders records back into the export formats.
package transcript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

// External status codes found in academic transcripts
const (
	externalApproved = "APR"
	externalExempted = "DISP"
	externalEnrolled = "MATR"
)

// External category codes
const (
	externalRequired = "OBR"
	externalLimited  = "OL"
	externalFree     = "LIV"
)

// mapStatus translates an external status. The second return value is false
// for failed attempts (REP, REPF, the "0" sentinel) and unknown codes, which
// are not imported.
func mapStatus(status string) (models.Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case externalApproved, externalExempted:
		return models.StatusCompleted, true
	case externalEnrolled:
		return models.StatusPlanned, true
	default:
		return "", false
	}
}

func mapCategory(category string) models.Category {
	switch strings.ToUpper(strings.TrimSpace(category)) {
	case externalRequired:
		return models.CategoryRequired
	case externalLimited:
		return models.CategoryLimited
	case externalFree:
		return models.CategoryFree
	default:
		return models.CategoryFree
	}
}

// ParsePeriod splits a "YYYY.T" period into year and term
func ParsePeriod(period string) (int, models.Term, error) {
	yearPart, termPart, ok := strings.Cut(strings.TrimSpace(period), ".")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", apperrors.ErrMalformedPeriod, period)
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil || year <= 0 {
		return 0, 0, fmt.Errorf("%w: %q has an invalid year", apperrors.ErrMalformedPeriod, period)
	}

	term, err := strconv.Atoi(termPart)
	if err != nil || !models.Term(term).IsValid() {
		return 0, 0, fmt.Errorf("%w: %q has an invalid term", apperrors.ErrMalformedPeriod, period)
	}

	return year, models.Term(term), nil
}

// Normalize maps external transcript entries to record drafts.
//
// Failed attempts are dropped. Entries sharing a course code collapse into
// one draft: a completed entry always replaces a planned one, a planned entry
// never replaces a completed one, and otherwise the later entry wins. Drafts
// keep the position of the first entry seen for their code.
//
// A malformed period fails the whole batch.
func Normalize(raw []models.ExternalRecord) ([]models.CourseRecordDraft, error) {
	drafts := make([]models.CourseRecordDraft, 0, len(raw))
	index := make(map[string]int, len(raw))

	for i, rec := range raw {
		status, ok := mapStatus(rec.Status)
		if !ok {
			continue
		}

		year, term, err := ParsePeriod(rec.Period)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, rec.Code, err)
		}

		draft := models.CourseRecordDraft{
			Code:     strings.TrimSpace(rec.Code),
			Name:     rec.Name,
			Credits:  rec.Credits,
			Year:     year,
			Term:     term,
			Category: mapCategory(rec.Category),
			Status:   status,
		}
		if rec.Grade != "" {
			grade := rec.Grade
			draft.Grade = &grade
		}

		pos, seen := index[draft.Code]
		if !seen {
			index[draft.Code] = len(drafts)
			drafts = append(drafts, draft)
			continue
		}

		prior := drafts[pos]
		if prior.Status == models.StatusCompleted && draft.Status == models.StatusPlanned {
			continue
		}
		drafts[pos] = draft
	}

	return drafts, nil
}
