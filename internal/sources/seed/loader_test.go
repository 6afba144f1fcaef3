package seed

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `---
assets:
  - id: rack-01
    name: Dell PowerEdge R750
    vendor: Dell Technologies
    model: PowerEdge R750
    serialNumber: SRV-2024-001
    category: server
    unitCost: 8400.5
    purchaseDate: "2023-06-15"
    endOfLife: "2028-06-15"
    warrantyExpiry: "2026-06-15"
    maintenanceContract:
      hasContract: true
      expiryDate: "2025-06-15"
      provider: Dell ProSupport
    documents:
      invoice: inv-2023-118
  - name: Meinberg M300
    vendor: Meinberg
    model: LANTIME M300
    serialNumber: NTP-7
    category: ntp
    purchaseDate: "2020-02-01"
    endOfLife: "2030-02-01"
    warrantyExpiry: "2025-02-01"
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create seed file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	f, err := NewLoader(writeSeed(t, sampleYAML)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Assets) != 2 {
		t.Fatalf("Load() returned %d assets, want 2", len(f.Assets))
	}
	if f.Assets[0].Maintenance.Provider != "Dell ProSupport" {
		t.Errorf("maintenance provider = %q", f.Assets[0].Maintenance.Provider)
	}
	if f.Assets[0].UnitCost == nil || *f.Assets[0].UnitCost != 8400.5 {
		t.Errorf("unitCost = %v, want 8400.5", f.Assets[0].UnitCost)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewLoader("/nonexistent/path/seed.yaml").Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    int
	}{
		{name: "empty document", input: "", want: 0},
		{name: "empty list", input: "assets: []\n", want: 0},
		{name: "unknown key", input: "assets:\n  - nmae: typo\n", wantErr: true},
		{name: "not yaml", input: "assets: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(f.Assets) != tt.want {
				t.Errorf("Parse() returned %d assets, want %d", len(f.Assets), tt.want)
			}
		})
	}
}
