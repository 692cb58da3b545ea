package enrich

import "testing"

func intp(v int) *int { return &v }

func TestUpdatesFillsOnlyEmptyFields(t *testing.T) {
	t.Parallel()

	existing := &Payload{CommunityName: "仁愛帝寶", Rooms: intp(3)}
	candidate := &Payload{
		Lat:           25.0375,
		Lng:           121.5435,
		CommunityName: "別的社區",
		Rooms:         intp(4),
		Halls:         intp(2),
	}

	updates := Updates(existing, candidate)
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d: %v", len(updates), updates)
	}
	if updates["lat"] != 25.0375 || updates["lng"] != 121.5435 {
		t.Fatalf("expected coordinates in updates: %v", updates)
	}
	if updates["halls"] != 2 {
		t.Fatalf("expected halls filled: %v", updates)
	}
	if _, ok := updates["community_name"]; ok {
		t.Fatalf("non-empty community_name must never be overwritten: %v", updates)
	}
	if _, ok := updates["rooms"]; ok {
		t.Fatalf("non-empty rooms must never be overwritten: %v", updates)
	}
}

func TestUpdatesEmptyWhenCandidateAddsNothing(t *testing.T) {
	t.Parallel()

	existing := &Payload{Lat: 25.04, Lng: 121.54, CommunityName: "仁愛帝寶"}
	candidate := &Payload{Lat: 25.05, CommunityName: "仁愛帝寶"}

	if updates := Updates(existing, candidate); len(updates) != 0 {
		t.Fatalf("expected no updates, got %v", updates)
	}
}

func TestMergeNeverOverwrites(t *testing.T) {
	t.Parallel()

	dst := &Payload{CommunityName: "仁愛帝寶", BuildingArea: 120.5}
	src := &Payload{CommunityName: "別的社區", BuildingArea: 99, Rooms: intp(3), Note: "含車位"}

	Merge(dst, src)
	if dst.CommunityName != "仁愛帝寶" {
		t.Fatalf("community overwritten: %q", dst.CommunityName)
	}
	if dst.BuildingArea != 120.5 {
		t.Fatalf("building area overwritten: %v", dst.BuildingArea)
	}
	if dst.Rooms == nil || *dst.Rooms != 3 {
		t.Fatalf("rooms not filled: %v", dst.Rooms)
	}
	if dst.Note != "含車位" {
		t.Fatalf("note not filled: %q", dst.Note)
	}
}

func TestMergeCopiesCountPointers(t *testing.T) {
	t.Parallel()

	src := &Payload{Rooms: intp(3)}
	dst := &Payload{}
	Merge(dst, src)

	*src.Rooms = 5
	if *dst.Rooms != 3 {
		t.Fatalf("merged count must not alias the source, got %d", *dst.Rooms)
	}
}

func TestRichnessWeights(t *testing.T) {
	t.Parallel()

	if got := (&Payload{}).Richness(); got != 0 {
		t.Fatalf("empty payload richness: %d", got)
	}
	if got := (&Payload{Lat: 25.04, Lng: 121.54}).Richness(); got != 3 {
		t.Fatalf("coordinates alone should score 3, got %d", got)
	}
	if got := (&Payload{CommunityName: "仁愛帝寶"}).Richness(); got != 3 {
		t.Fatalf("community alone should score 3, got %d", got)
	}
	full := &Payload{
		Lat: 25.04, Lng: 121.54, CommunityName: "仁愛帝寶",
		BuildingType: "住宅大樓", MainUse: "住家用", HasManagement: "有",
		Rooms: intp(3), Halls: intp(2), Bathrooms: intp(2),
		BuildingArea: 120.5, TransactionType: "房地(土地+建物)",
	}
	if got := full.Richness(); got != 14 {
		t.Fatalf("fully populated payload should score 14, got %d", got)
	}
	if (&Payload{Note: "備註", FloorLevel: "五層"}).Richness() != 0 {
		t.Fatalf("unweighted fields must not score")
	}
}

func TestCompleteAndEmpty(t *testing.T) {
	t.Parallel()

	if (&Payload{}).Complete() {
		t.Fatalf("empty payload reported complete")
	}
	if !(&Payload{}).Empty() {
		t.Fatalf("empty payload not reported empty")
	}
	p := &Payload{
		Lat: 25.04, Lng: 121.54, CommunityName: "仁愛帝寶",
		BuildingType: "住宅大樓", MainUse: "住家用", HasManagement: "有",
		Rooms: intp(3), Halls: intp(2), Bathrooms: intp(2),
		BuildingArea: 120.5, UnitPrice: 1200000,
		TransactionType: "房地(土地+建物)", FloorLevel: "五層", TotalFloors: "十五層",
		Note: "含車位",
	}
	if !p.Complete() {
		t.Fatalf("fully populated payload not reported complete")
	}
	if p.Empty() {
		t.Fatalf("fully populated payload reported empty")
	}
}
