package category

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a stable digest of the list. Two lists with the same
// records in the same order share a fingerprint.
func Fingerprint(records []Record) uint64 {
	d := xxhash.New()
	for _, r := range records {
		for _, field := range []string{
			r.ID, r.Name, r.Slug, r.ParentID,
			strconv.FormatBool(r.IsActive),
			strconv.FormatFloat(r.Order, 'g', -1, 64),
			string(r.Type), r.Description, r.ImageURL,
		} {
			_, _ = d.WriteString(field)
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.Write([]byte{'\n'})
	}
	return d.Sum64()
}
