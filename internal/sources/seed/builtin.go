package seed

import "github.com/MrSnakeDoc/hwtrack/internal/domain"

// Builtin returns the demo collection adopted when no record and no seed
// file exist. Each call returns fresh values.
func Builtin() []domain.Asset {
	return []domain.Asset{
		{
			ID:             "1",
			Name:           "Dell PowerEdge R750",
			Vendor:         "Dell Technologies",
			Model:          "PowerEdge R750",
			SerialNumber:   "SRV-2024-001",
			Category:       domain.CategoryServer,
			PurchaseDate:   domain.MustParseDate("2023-06-15"),
			EndOfLife:      domain.MustParseDate("2028-06-15"),
			WarrantyExpiry: domain.MustParseDate("2026-06-15"),
			MaintenanceContract: domain.MaintenanceContract{
				HasContract: true,
				ExpiryDate:  domain.MustParseDate("2025-06-15"),
				Provider:    "Dell ProSupport",
			},
			ProfessionalSupport: domain.ProfessionalSupport{
				HasSupport:  true,
				Provider:    "Dell Technologies",
				ContactInfo: "support@dell.com",
			},
			Documents: map[domain.DocumentKind]string{},
			Notes:     "Primary production server",
			CreatedAt: domain.MustParseDate("2023-06-15"),
			UpdatedAt: domain.MustParseDate("2024-01-15"),
		},
		{
			ID:             "2",
			Name:           "HP ProLiant DL380",
			Vendor:         "Hewlett Packard Enterprise",
			Model:          "ProLiant DL380 Gen10",
			SerialNumber:   "SRV-2022-045",
			Category:       domain.CategoryServer,
			PurchaseDate:   domain.MustParseDate("2022-03-10"),
			EndOfLife:      domain.MustParseDate("2027-03-10"),
			WarrantyExpiry: domain.MustParseDate("2025-03-10"),
			MaintenanceContract: domain.MaintenanceContract{
				HasContract: true,
				ExpiryDate:  domain.MustParseDate("2025-02-01"),
				Provider:    "HPE Care Pack",
			},
			ProfessionalSupport: domain.ProfessionalSupport{
				HasSupport:  true,
				Provider:    "HPE",
				ContactInfo: "hpe-support@hpe.com",
			},
			Documents: map[domain.DocumentKind]string{},
			Notes:     "Database server - maintenance expiring soon",
			CreatedAt: domain.MustParseDate("2022-03-10"),
			UpdatedAt: domain.MustParseDate("2024-01-10"),
		},
		{
			ID:             "3",
			Name:           "Cisco Catalyst 9300",
			Vendor:         "Cisco Systems",
			Model:          "Catalyst 9300-48P",
			SerialNumber:   "NET-2021-012",
			Category:       domain.CategoryNetwork,
			PurchaseDate:   domain.MustParseDate("2021-01-20"),
			EndOfLife:      domain.MustParseDate("2026-01-20"),
			WarrantyExpiry: domain.MustParseDate("2024-01-20"),
			Documents:      map[domain.DocumentKind]string{},
			Notes:          "Core network switch - warranty expired!",
			CreatedAt:      domain.MustParseDate("2021-01-20"),
			UpdatedAt:      domain.MustParseDate("2024-01-01"),
		},
	}
}

// FromFile loads and maps a seed file. newID fills entries without an id.
func FromFile(path string, newID func() string) ([]domain.Asset, error) {
	f, err := NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	return NewMapper(newID).MapAssets(f)
}
