package domain

import (
	"encoding/json"
	"strings"
)

// Category classifies an asset. The accepted set is configured, see DefaultCategories.
type Category string

const (
	CategoryServer      Category = "server"
	CategoryNetwork     Category = "network"
	CategoryStorage     Category = "storage"
	CategoryNTP         Category = "ntp"
	CategoryWorkstation Category = "workstation"
	CategoryLaptop      Category = "laptop"
	CategoryPeripheral  Category = "peripheral"
	CategoryOther       Category = "other"
)

// DefaultCategories is the category set used when none is configured.
var DefaultCategories = []Category{
	CategoryServer,
	CategoryNetwork,
	CategoryStorage,
	CategoryNTP,
	CategoryWorkstation,
	CategoryLaptop,
	CategoryPeripheral,
	CategoryOther,
}

// DocumentKind names an attached document slot. Only the kinds below
// exist; the references stored in them are opaque.
type DocumentKind string

const (
	DocumentWarranty DocumentKind = "warranty"
	DocumentInvoice  DocumentKind = "invoice"
)

// Valid reports whether k is a known document slot.
func (k DocumentKind) Valid() bool {
	return k == DocumentWarranty || k == DocumentInvoice
}

// MaintenanceContract describes a third-party maintenance agreement.
// ExpiryDate and Provider are only meaningful when HasContract is true.
type MaintenanceContract struct {
	HasContract bool   `json:"hasContract"`
	ExpiryDate  Date   `json:"expiryDate,omitzero"`
	Provider    string `json:"provider,omitempty"`
}

// ProfessionalSupport describes a vendor or partner support line.
type ProfessionalSupport struct {
	HasSupport  bool   `json:"hasSupport"`
	Provider    string `json:"provider,omitempty"`
	ContactInfo string `json:"contactInfo,omitempty"`
}

// Asset is one tracked hardware item.
//
// Status is derived from the lifecycle dates and is never trusted from
// callers or storage: the inventory store recomputes it on load and on
// every mutation.
type Asset struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Vendor       string   `json:"vendor"`
	Model        string   `json:"model"`
	SerialNumber string   `json:"serialNumber"`
	Category     Category `json:"category"`
	UnitCost     *float64 `json:"unitCost,omitempty"`

	PurchaseDate   Date `json:"purchaseDate"`
	EndOfLife      Date `json:"endOfLife"`
	WarrantyExpiry Date `json:"warrantyExpiry"`

	MaintenanceContract MaintenanceContract     `json:"maintenanceContract"`
	ProfessionalSupport ProfessionalSupport     `json:"professionalSupport"`
	Documents           map[DocumentKind]string `json:"documents"`

	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`

	CreatedAt Date `json:"createdAt"`
	UpdatedAt Date `json:"updatedAt"`
}

// UnmarshalJSON fills defaults for fields older records may lack.
func (a *Asset) UnmarshalJSON(data []byte) error {
	type plain Asset
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}
	if p.Documents == nil {
		p.Documents = map[DocumentKind]string{}
	}
	*a = Asset(p)
	return nil
}

// Clone returns a deep copy, so callers never share the pointer and map fields.
func (a Asset) Clone() Asset {
	if a.UnitCost != nil {
		c := *a.UnitCost
		a.UnitCost = &c
	}
	docs := make(map[DocumentKind]string, len(a.Documents))
	for k, v := range a.Documents {
		docs[k] = v
	}
	a.Documents = docs
	return a
}

// MatchesText reports whether q is a case-insensitive substring of the
// name, vendor, model or serial number.
func (a Asset) MatchesText(q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, field := range []string{a.Name, a.Vendor, a.Model, a.SerialNumber} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// AssetInput is what a caller supplies to create an asset.
type AssetInput struct {
	Name         string   `json:"name"`
	Vendor       string   `json:"vendor"`
	Model        string   `json:"model"`
	SerialNumber string   `json:"serialNumber"`
	Category     Category `json:"category"`
	UnitCost     *float64 `json:"unitCost,omitempty"`

	PurchaseDate   Date `json:"purchaseDate"`
	EndOfLife      Date `json:"endOfLife"`
	WarrantyExpiry Date `json:"warrantyExpiry"`

	MaintenanceContract MaintenanceContract     `json:"maintenanceContract"`
	ProfessionalSupport ProfessionalSupport     `json:"professionalSupport"`
	Documents           map[DocumentKind]string `json:"documents,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// ToAsset builds an Asset without id, status or timestamps.
func (in AssetInput) ToAsset() Asset {
	a := Asset{
		Name:                in.Name,
		Vendor:              in.Vendor,
		Model:               in.Model,
		SerialNumber:        in.SerialNumber,
		Category:            in.Category,
		UnitCost:            in.UnitCost,
		PurchaseDate:        in.PurchaseDate,
		EndOfLife:           in.EndOfLife,
		WarrantyExpiry:      in.WarrantyExpiry,
		MaintenanceContract: in.MaintenanceContract,
		ProfessionalSupport: in.ProfessionalSupport,
		Documents:           in.Documents,
		Notes:               in.Notes,
	}
	if a.Category == "" {
		a.Category = CategoryOther
	}
	return a.Clone()
}

// AssetPatch carries a partial update. Nil fields are left untouched;
// nested objects replace the existing value as a whole.
type AssetPatch struct {
	Name         *string   `json:"name,omitempty"`
	Vendor       *string   `json:"vendor,omitempty"`
	Model        *string   `json:"model,omitempty"`
	SerialNumber *string   `json:"serialNumber,omitempty"`
	Category     *Category `json:"category,omitempty"`
	UnitCost     *float64  `json:"unitCost,omitempty"`

	PurchaseDate   *Date `json:"purchaseDate,omitempty"`
	EndOfLife      *Date `json:"endOfLife,omitempty"`
	WarrantyExpiry *Date `json:"warrantyExpiry,omitempty"`

	MaintenanceContract *MaintenanceContract    `json:"maintenanceContract,omitempty"`
	ProfessionalSupport *ProfessionalSupport    `json:"professionalSupport,omitempty"`
	Documents           map[DocumentKind]string `json:"documents,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// Apply returns a copy of a with the patch merged onto it.
func (p AssetPatch) Apply(a Asset) Asset {
	out := a.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Vendor != nil {
		out.Vendor = *p.Vendor
	}
	if p.Model != nil {
		out.Model = *p.Model
	}
	if p.SerialNumber != nil {
		out.SerialNumber = *p.SerialNumber
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.UnitCost != nil {
		c := *p.UnitCost
		out.UnitCost = &c
	}
	if p.PurchaseDate != nil {
		out.PurchaseDate = *p.PurchaseDate
	}
	if p.EndOfLife != nil {
		out.EndOfLife = *p.EndOfLife
	}
	if p.WarrantyExpiry != nil {
		out.WarrantyExpiry = *p.WarrantyExpiry
	}
	if p.MaintenanceContract != nil {
		out.MaintenanceContract = *p.MaintenanceContract
	}
	if p.ProfessionalSupport != nil {
		out.ProfessionalSupport = *p.ProfessionalSupport
	}
	if p.Documents != nil {
		docs := make(map[DocumentKind]string, len(p.Documents))
		for k, v := range p.Documents {
			docs[k] = v
		}
		out.Documents = docs
	}
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	return out
}
