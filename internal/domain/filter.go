package domain

// Filter narrows a collection. Zero-valued fields are inactive; active
// fields are combined with AND.
type Filter struct {
	Status   Status
	Category Category
	Search   string
}

// Match reports whether a satisfies every active criterion.
func (f Filter) Match(a Asset) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	return a.MatchesText(f.Search)
}

// Stats are counts over a full, unfiltered collection.
type Stats struct {
	Total           int `json:"total"`
	Healthy         int `json:"healthy"`
	Warning         int `json:"warning"`
	Critical        int `json:"critical"`
	WithMaintenance int `json:"withMaintenance"`
	WithSupport     int `json:"withSupport"`
}

// Aggregate counts assets per status and per contract flag.
func Aggregate(assets []Asset) Stats {
	s := Stats{Total: len(assets)}
	for _, a := range assets {
		switch a.Status {
		case StatusHealthy:
			s.Healthy++
		case StatusWarning:
			s.Warning++
		case StatusCritical:
			s.Critical++
		}
		if a.MaintenanceContract.HasContract {
			s.WithMaintenance++
		}
		if a.ProfessionalSupport.HasSupport {
			s.WithSupport++
		}
	}
	return s
}
