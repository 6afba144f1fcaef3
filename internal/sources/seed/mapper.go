package seed

import (
	"fmt"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
)

// Mapper converts seed entries to domain assets.
type Mapper struct {
	newID func() string
}

// NewMapper creates a mapper. newID fills entries that carry no id.
func NewMapper(newID func() string) *Mapper {
	return &Mapper{newID: newID}
}

// MapAssets converts a seed file into assets, in file order.
// Status is left empty; the inventory store derives it on adoption.
func (m *Mapper) MapAssets(f File) ([]domain.Asset, error) {
	if len(f.Assets) == 0 {
		return nil, fmt.Errorf("no assets found in seed file")
	}

	assets := make([]domain.Asset, 0, len(f.Assets))
	seen := make(map[string]struct{}, len(f.Assets))
	for i, props := range f.Assets {
		a, err := m.mapAsset(props)
		if err != nil {
			return nil, fmt.Errorf("seed asset %d (%s): %w", i, props.Name, err)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("seed asset %d: duplicate id %q", i, a.ID)
		}
		seen[a.ID] = struct{}{}
		assets = append(assets, a)
	}
	return assets, nil
}

func (m *Mapper) mapAsset(p AssetProps) (domain.Asset, error) {
	var (
		a   domain.Asset
		err error
	)
	dates := []struct {
		field string
		value string
		dst   *domain.Date
	}{
		{"purchaseDate", p.PurchaseDate, &a.PurchaseDate},
		{"endOfLife", p.EndOfLife, &a.EndOfLife},
		{"warrantyExpiry", p.WarrantyExpiry, &a.WarrantyExpiry},
		{"maintenanceContract.expiryDate", p.Maintenance.ExpiryDate, &a.MaintenanceContract.ExpiryDate},
		{"createdAt", p.CreatedAt, &a.CreatedAt},
		{"updatedAt", p.UpdatedAt, &a.UpdatedAt},
	}
	for _, d := range dates {
		if *d.dst, err = domain.ParseDate(d.value); err != nil {
			return domain.Asset{}, fmt.Errorf("%s: %w", d.field, err)
		}
	}

	a.ID = p.ID
	if a.ID == "" {
		a.ID = m.newID()
	}
	a.Name = p.Name
	a.Vendor = p.Vendor
	a.Model = p.Model
	a.SerialNumber = p.SerialNumber
	a.Category = domain.Category(p.Category)
	if a.Category == "" {
		a.Category = domain.CategoryOther
	}
	if p.UnitCost != nil {
		c := *p.UnitCost
		a.UnitCost = &c
	}
	a.MaintenanceContract.HasContract = p.Maintenance.HasContract
	a.MaintenanceContract.Provider = p.Maintenance.Provider
	a.ProfessionalSupport = domain.ProfessionalSupport{
		HasSupport:  p.Support.HasSupport,
		Provider:    p.Support.Provider,
		ContactInfo: p.Support.ContactInfo,
	}
	a.Documents = make(map[domain.DocumentKind]string, len(p.Documents))
	for k, v := range p.Documents {
		kind := domain.DocumentKind(k)
		if !kind.Valid() {
			return domain.Asset{}, fmt.Errorf("documents: unknown kind %q", k)
		}
		a.Documents[kind] = v
	}
	a.Notes = p.Notes
	return a, nil
}
