package inventory

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
)

// validate checks required-field presence and the configured constraints.
// It runs on the asset as it would be stored, so Create and Update share it.
func (s *Store) validate(a domain.Asset) error {
	var problems []string

	required := []struct {
		field string
		empty bool
	}{
		{"name", strings.TrimSpace(a.Name) == ""},
		{"vendor", strings.TrimSpace(a.Vendor) == ""},
		{"model", strings.TrimSpace(a.Model) == ""},
		{"serialNumber", strings.TrimSpace(a.SerialNumber) == ""},
		{"purchaseDate", a.PurchaseDate.IsZero()},
		{"endOfLife", a.EndOfLife.IsZero()},
		{"warrantyExpiry", a.WarrantyExpiry.IsZero()},
	}
	for _, r := range required {
		if r.empty {
			problems = append(problems, r.field+" is required")
		}
	}

	if len(s.categories) > 0 && !slices.Contains(s.categories, a.Category) {
		problems = append(problems, fmt.Sprintf("category %q is not allowed", a.Category))
	}

	kinds := make([]string, 0, len(a.Documents))
	for k := range a.Documents {
		if !k.Valid() {
			kinds = append(kinds, string(k))
		}
	}
	if len(kinds) > 0 {
		slices.Sort(kinds)
		problems = append(problems, fmt.Sprintf("unknown document kinds %q (want warranty or invoice)", kinds))
	}

	switch {
	case a.UnitCost == nil && s.requireUnitCost:
		problems = append(problems, "unitCost is required")
	case a.UnitCost != nil && *a.UnitCost < 0:
		problems = append(problems, "unitCost must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}
