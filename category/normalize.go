package category

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// Normalize backfills the optional wire fields and returns a complete Record.
// A record without an identifier fails with a validation error.
func Normalize(w WireRecord) (Record, error) {
	id := strings.TrimSpace(w.ID)
	if id == "" {
		id = strings.TrimSpace(w.LegacyID)
	}

	if err := validation.Validate(id, validation.Required); err != nil {
		return Record{}, goerrors.FromOzzoValidation(
			validation.Errors{"id": err},
			"invalid category record",
		).WithTextCode("CATEGORY_MISSING_ID")
	}

	rec := Record{
		ID:          id,
		Name:        w.Name,
		Slug:        w.Slug,
		IsActive:    true,
		Type:        TypeMain,
		Description: w.Description,
		ImageURL:    w.ImageURL,
	}

	if w.ParentID != nil {
		rec.ParentID = strings.TrimSpace(*w.ParentID)
	}
	if w.IsActive != nil {
		rec.IsActive = *w.IsActive
	}
	if w.Order != nil {
		rec.Order = *w.Order
	}
	if w.Type != nil {
		rec.Type = parseType(*w.Type)
	}

	return rec, nil
}

// NormalizeAll normalizes records in input order and skips the malformed ones.
// It returns the number of skipped records.
func NormalizeAll(in []WireRecord) ([]Record, int) {
	out := make([]Record, 0, len(in))
	skipped := 0
	for _, w := range in {
		rec, err := Normalize(w)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}

func parseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "promo", "promotion", "promotional":
		return TypePromo
	default:
		return TypeMain
	}
}
