package seed

// File is the top-level structure of a seed YAML file.
type File struct {
	Assets []AssetProps `yaml:"assets"`
}

// AssetProps mirrors an asset as written by hand. Dates stay strings here
// and are parsed by the mapper so a bad value can be reported with its name.
type AssetProps struct {
	ID             string            `yaml:"id,omitempty"`
	Name           string            `yaml:"name"`
	Vendor         string            `yaml:"vendor"`
	Model          string            `yaml:"model"`
	SerialNumber   string            `yaml:"serialNumber"`
	Category       string            `yaml:"category,omitempty"`
	UnitCost       *float64          `yaml:"unitCost,omitempty"`
	PurchaseDate   string            `yaml:"purchaseDate"`
	EndOfLife      string            `yaml:"endOfLife"`
	WarrantyExpiry string            `yaml:"warrantyExpiry"`
	Maintenance    MaintenanceProps  `yaml:"maintenanceContract,omitempty"`
	Support        SupportProps      `yaml:"professionalSupport,omitempty"`
	Documents      map[string]string `yaml:"documents,omitempty"`
	Notes          string            `yaml:"notes,omitempty"`
	CreatedAt      string            `yaml:"createdAt,omitempty"`
	UpdatedAt      string            `yaml:"updatedAt,omitempty"`
}

type MaintenanceProps struct {
	HasContract bool   `yaml:"hasContract"`
	ExpiryDate  string `yaml:"expiryDate,omitempty"`
	Provider    string `yaml:"provider,omitempty"`
}

type SupportProps struct {
	HasSupport  bool   `yaml:"hasSupport"`
	Provider    string `yaml:"provider,omitempty"`
	ContactInfo string `yaml:"contactInfo,omitempty"`
}
