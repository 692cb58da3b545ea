// Package enrich holds the enrichable slice of a transaction record and the
// merge rules that govern it: existing non-empty values are never
// overwritten, only empty fields are filled.
package enrich

// Payload carries the fields a richer observation of the same transaction is
// allowed to contribute. Zero is empty for the float fields, nil is empty for
// the count fields, blank is empty for the string fields.
type Payload struct {
	Lat             float64
	Lng             float64
	CommunityName   string
	BuildingType    string
	MainUse         string
	HasManagement   string
	Rooms           *int
	Halls           *int
	Bathrooms       *int
	BuildingArea    float64
	UnitPrice       float64
	TransactionType string
	FloorLevel      string
	TotalFloors     string
	Note            string
}

// fieldSpec describes one enrichable column: its emptiness predicate, its
// current value, how to copy it between payloads, and its weight in the
// richness score.
type fieldSpec struct {
	column string
	weight int
	empty  func(p *Payload) bool
	value  func(p *Payload) any
	copyTo func(dst, src *Payload)
}

func floatSpec(column string, weight int, sel func(*Payload) *float64) fieldSpec {
	return fieldSpec{
		column: column,
		weight: weight,
		empty:  func(p *Payload) bool { return *sel(p) == 0 },
		value:  func(p *Payload) any { return *sel(p) },
		copyTo: func(dst, src *Payload) { *sel(dst) = *sel(src) },
	}
}

func countSpec(column string, weight int, sel func(*Payload) **int) fieldSpec {
	return fieldSpec{
		column: column,
		weight: weight,
		empty:  func(p *Payload) bool { return *sel(p) == nil },
		value:  func(p *Payload) any { return **sel(p) },
		copyTo: func(dst, src *Payload) {
			v := **sel(src)
			*sel(dst) = &v
		},
	}
}

func stringSpec(column string, weight int, sel func(*Payload) *string) fieldSpec {
	return fieldSpec{
		column: column,
		weight: weight,
		empty:  func(p *Payload) bool { return *sel(p) == "" },
		value:  func(p *Payload) any { return *sel(p) },
		copyTo: func(dst, src *Payload) { *sel(dst) = *sel(src) },
	}
}

// fields is the single source of truth for the enrichable columns. Weights
// follow the value of each field for identifying a property: coordinates and
// community name dominate, layout and type attributes count one each, and the
// purely descriptive fields carry no weight.
var fields = []fieldSpec{
	floatSpec("lat", 3, func(p *Payload) *float64 { return &p.Lat }),
	floatSpec("lng", 0, func(p *Payload) *float64 { return &p.Lng }),
	stringSpec("community_name", 3, func(p *Payload) *string { return &p.CommunityName }),
	stringSpec("building_type", 1, func(p *Payload) *string { return &p.BuildingType }),
	stringSpec("main_use", 1, func(p *Payload) *string { return &p.MainUse }),
	stringSpec("has_management", 1, func(p *Payload) *string { return &p.HasManagement }),
	countSpec("rooms", 1, func(p *Payload) **int { return &p.Rooms }),
	countSpec("halls", 1, func(p *Payload) **int { return &p.Halls }),
	countSpec("bathrooms", 1, func(p *Payload) **int { return &p.Bathrooms }),
	floatSpec("building_area", 1, func(p *Payload) *float64 { return &p.BuildingArea }),
	floatSpec("unit_price", 0, func(p *Payload) *float64 { return &p.UnitPrice }),
	stringSpec("transaction_type", 1, func(p *Payload) *string { return &p.TransactionType }),
	stringSpec("floor_level", 0, func(p *Payload) *string { return &p.FloorLevel }),
	stringSpec("total_floors", 0, func(p *Payload) *string { return &p.TotalFloors }),
	stringSpec("note", 0, func(p *Payload) *string { return &p.Note }),
}

// Columns returns the enrichable column names in declaration order.
func Columns() []string {
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
	}
	return cols
}

// Updates returns column→value pairs for every field that is empty in
// existing and non-empty in candidate. An empty result means the candidate
// adds nothing.
func Updates(existing, candidate *Payload) map[string]any {
	updates := make(map[string]any)
	for _, f := range fields {
		if f.empty(existing) && !f.empty(candidate) {
			updates[f.column] = f.value(candidate)
		}
	}
	return updates
}

// Merge fills every empty field of dst from src. Non-empty dst fields are
// never touched.
func Merge(dst, src *Payload) {
	for _, f := range fields {
		if f.empty(dst) && !f.empty(src) {
			f.copyTo(dst, src)
		}
	}
}

// Richness scores how much identifying detail a payload carries. Used to pick
// the winning payload when two observations claim the same key.
func (p *Payload) Richness() int {
	score := 0
	for _, f := range fields {
		if f.weight > 0 && !f.empty(p) {
			score += f.weight
		}
	}
	return score
}

// Complete reports whether no enrichable field is empty. Complete rows are
// skipped by the bulk sweep before any map lookup.
func (p *Payload) Complete() bool {
	for _, f := range fields {
		if f.empty(p) {
			return false
		}
	}
	return true
}

// Empty reports whether every enrichable field is empty.
func (p *Payload) Empty() bool {
	for _, f := range fields {
		if !f.empty(p) {
			return false
		}
	}
	return true
}
