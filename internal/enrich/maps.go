package enrich

// DatePriceKey identifies a transaction by its normalized date and total
// price, for matching rows whose address spellings diverge.
type DatePriceKey struct {
	Date  string
	Price int64
}

// Maps are the three entity-resolution lookup tables built in one pass over
// the richer source. Matching walks them in confidence order: exact address,
// then date+price, then floor-stripped base address.
type Maps struct {
	FullAddress map[string]*Payload
	DatePrice   map[DatePriceKey]*Payload
	BaseAddress map[string]*Payload
}

func NewMaps() *Maps {
	return &Maps{
		FullAddress: make(map[string]*Payload),
		DatePrice:   make(map[DatePriceKey]*Payload),
		BaseAddress: make(map[string]*Payload),
	}
}

// merge combines two payloads claiming the same key: the richer one is kept
// as the base and its empty fields are filled from the other, so insertion
// order does not decide which observation wins.
func merge(existing, incoming *Payload) *Payload {
	if existing.Richness() >= incoming.Richness() {
		Merge(existing, incoming)
		return existing
	}
	Merge(incoming, existing)
	return incoming
}

// AddFull records a payload under its exact normalized address.
func (m *Maps) AddFull(addr string, p *Payload) {
	if addr == "" || p == nil {
		return
	}
	if existing, ok := m.FullAddress[addr]; ok {
		p = merge(existing, p)
	}
	m.FullAddress[addr] = p
}

// AddDatePrice records a payload under its date+price identity. Zero-price
// rows are not keyed here: too many unrelated rows fold to price 0.
func (m *Maps) AddDatePrice(key DatePriceKey, p *Payload) {
	if key.Date == "" || key.Price == 0 || p == nil {
		return
	}
	if existing, ok := m.DatePrice[key]; ok {
		p = merge(existing, p)
	}
	m.DatePrice[key] = p
}

// AddBase records a payload under its floor-stripped base address.
func (m *Maps) AddBase(baseAddr string, p *Payload) {
	if baseAddr == "" || p == nil {
		return
	}
	if existing, ok := m.BaseAddress[baseAddr]; ok {
		p = merge(existing, p)
	}
	m.BaseAddress[baseAddr] = p
}

// Len returns the sizes of the three maps, for run logging.
func (m *Maps) Len() (full, datePrice, base int) {
	return len(m.FullAddress), len(m.DatePrice), len(m.BaseAddress)
}

// UpdatesFor resolves a row against the three maps in order and returns the
// column updates the matches contribute. A later map only fills fields still
// empty after the earlier matches.
func (m *Maps) UpdatesFor(existing *Payload, fullAddr string, key DatePriceKey, baseAddr string) map[string]any {
	working := *existing
	for _, match := range []*Payload{m.FullAddress[fullAddr], m.DatePrice[key], m.BaseAddress[baseAddr]} {
		if match == nil {
			continue
		}
		Merge(&working, match)
	}
	return Updates(existing, &working)
}
