package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

// Format identifies the layout of an import file
type Format string

const (
	// FormatBackup is an array of native records, as produced by Encode
	FormatBackup Format = "backup"
	// FormatTranscript is an array of external transcript entries
	FormatTranscript Format = "transcript"
)

// DetectFormat inspects the first element of a JSON array. The file is a
// transcript when that element has a non-empty period and category.
func DetectFormat(data []byte) (Format, error) {
	elems, err := splitArray(data)
	if err != nil {
		return "", err
	}
	return detect(elems), nil
}

func detect(elems []json.RawMessage) Format {
	if len(elems) == 0 {
		return FormatBackup
	}

	var probe map[string]interface{}
	if err := json.Unmarshal(elems[0], &probe); err != nil {
		return FormatBackup
	}
	if truthy(probe["period"]) && truthy(probe["category"]) {
		return FormatTranscript
	}
	return FormatBackup
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}

func splitArray(data []byte) ([]json.RawMessage, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array: %v", apperrors.ErrMalformedImport, err)
	}
	if elems == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", apperrors.ErrMalformedImport)
	}
	return elems, nil
}

// Decode parses an import file in either format into drafts. Any invalid
// entry fails the whole file.
func Decode(data []byte) ([]models.CourseRecordDraft, Format, error) {
	elems, err := splitArray(data)
	if err != nil {
		return nil, "", err
	}

	format := detect(elems)
	switch format {
	case FormatTranscript:
		var raw []models.ExternalRecord
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, format, fmt.Errorf("%w: %v", apperrors.ErrMalformedImport, err)
		}
		drafts, err := Normalize(raw)
		if err != nil {
			return nil, format, fmt.Errorf("%w: %w", apperrors.ErrMalformedImport, err)
		}
		return drafts, format, nil
	default:
		var drafts []models.CourseRecordDraft
		if err := json.Unmarshal(data, &drafts); err != nil {
			return nil, format, fmt.Errorf("%w: %v", apperrors.ErrMalformedImport, err)
		}
		for i := range drafts {
			if err := cleanDraft(&drafts[i]); err != nil {
				return nil, format, fmt.Errorf("%w: entry %d: %v", apperrors.ErrMalformedImport, i, err)
			}
		}
		return drafts, format, nil
	}
}

// cleanDraft validates a backup entry in place. Empty grades become absent,
// planned entries lose their grade.
func cleanDraft(d *models.CourseRecordDraft) error {
	d.Code = strings.TrimSpace(d.Code)
	if d.Code == "" {
		return fmt.Errorf("code is required")
	}
	if d.Credits < 0 {
		return fmt.Errorf("%s: credits must not be negative", d.Code)
	}
	if d.Year <= 0 {
		return fmt.Errorf("%s: year is required", d.Code)
	}
	if !d.Term.IsValid() {
		return fmt.Errorf("%s: term must be 1, 2 or 3", d.Code)
	}
	if !d.Category.IsValid() {
		return fmt.Errorf("%s: unknown category %q", d.Code, d.Category)
	}
	if !d.Status.IsValid() {
		return fmt.Errorf("%s: unknown status %q", d.Code, d.Status)
	}
	if d.Grade != nil && (*d.Grade == "" || d.Status != models.StatusCompleted) {
		d.Grade = nil
	}
	return nil
}

// Encode renders records as a pretty-printed backup array without ids
func Encode(records []models.CourseRecord) ([]byte, error) {
	drafts := make([]models.CourseRecordDraft, 0, len(records))
	for _, r := range records {
		drafts = append(drafts, r.Draft())
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(drafts); err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
