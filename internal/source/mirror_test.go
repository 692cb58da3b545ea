package source

import (
	"encoding/json"
	"testing"

	"horse.fit/landbase/internal/db"
)

func TestMapListingColumnsWinEnvelopeFills(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{
		"f": "九層/十五層",
		"t": "房地(土地+建物)",
		"b": "華廈",
		"j": 3, "k": "2", "l": 2,
		"m": "有",
		"pu": "住家用",
		"s": "76.5",
		"tp": 48000000,
		"note": "含車位"
	}`)
	listing := &db.MirrorListing{
		ID:              1,
		Serial:          "S123",
		CityCode:        "1",
		Town:            "大安區",
		Address:         "key123#台北市大安區仁愛路三段53號9樓",
		BuildingType:    "住宅大樓",
		TransactionDate: "113/01/15",
		TotalPrice:      50000000,
		RawJSON:         raw,
	}

	res := MapListing(listing)
	if res.Discard != DiscardNone {
		t.Fatalf("unexpected discard: %v", res.Discard)
	}
	record := res.Record

	if record.Address != "台北市大安區仁愛路三段53號9樓" {
		t.Fatalf("mirror key prefix not stripped: %q", record.Address)
	}
	if record.TransactionDate != "1130115" {
		t.Fatalf("date not normalized: %q", record.TransactionDate)
	}
	// Column value beats the envelope.
	if record.BuildingType != "住宅大樓" {
		t.Fatalf("column building type must win: %q", record.BuildingType)
	}
	if record.TotalPrice != 50000000 {
		t.Fatalf("column price must win: %d", record.TotalPrice)
	}
	// Envelope fills what the columns lack.
	if record.FloorLevel != "9層" || record.TotalFloors != "15層" {
		t.Fatalf("floor not split from envelope: %q / %q", record.FloorLevel, record.TotalFloors)
	}
	if record.BuildingArea != 76.5 {
		t.Fatalf("area not filled from envelope: %v", record.BuildingArea)
	}
	if record.Rooms == nil || *record.Rooms != 3 || record.Halls == nil || *record.Halls != 2 {
		t.Fatalf("layout counts not filled: %v %v", record.Rooms, record.Halls)
	}
	if record.MainUse != "住家用" {
		t.Fatalf("main use not filled: %q", record.MainUse)
	}
	if record.Note != "含車位" {
		t.Fatalf("note not filled: %q", record.Note)
	}
	if record.SerialNo != "591_S123" {
		t.Fatalf("unexpected serial: %q", record.SerialNo)
	}
}

func TestMapListingEnvelopePriceFillsZeroColumn(t *testing.T) {
	t.Parallel()

	listing := &db.MirrorListing{
		ID:      1,
		Town:    "大安區",
		Address: "大安區仁愛路三段53號",
		RawJSON: json.RawMessage(`{"tp": "48,000,000", "cp": 650000.5}`),
	}

	record := MapListing(listing).Record
	if record.TotalPrice != 48000000 {
		t.Fatalf("envelope price not coerced: %d", record.TotalPrice)
	}
	if record.UnitPrice != 650000.5 {
		t.Fatalf("envelope unit price not coerced: %v", record.UnitPrice)
	}
}

func TestMapListingLegacyMainUseKey(t *testing.T) {
	t.Parallel()

	listing := &db.MirrorListing{
		ID:      1,
		Town:    "大安區",
		Address: "大安區仁愛路三段53號",
		RawJSON: json.RawMessage(`{"AA11": "住家用"}`),
	}
	if got := MapListing(listing).Record.MainUse; got != "住家用" {
		t.Fatalf("legacy main-use key not read: %q", got)
	}
}

func TestMapListingDiscards(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		listing db.MirrorListing
		want    DiscardReason
	}{
		{"empty address", db.MirrorListing{ID: 1}, DiscardMissingAddress},
		{"placeholder address", db.MirrorListing{ID: 2, Address: "#"}, DiscardMissingAddress},
		{
			"malformed envelope",
			db.MirrorListing{ID: 3, Address: "大安區仁愛路三段53號", RawJSON: json.RawMessage(`{"f": `)},
			DiscardParseFailure,
		},
		{
			"envelope type violation",
			db.MirrorListing{ID: 4, Address: "大安區仁愛路三段53號", RawJSON: json.RawMessage(`{"f": 5}`)},
			DiscardParseFailure,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := MapListing(&tc.listing).Discard; got != tc.want {
				t.Fatalf("discard = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestListingPayloadKeys(t *testing.T) {
	t.Parallel()

	listing := &db.MirrorListing{
		ID:              1,
		Town:            "大安區",
		Address:         "台北市大安區仁愛路三段53號5樓",
		CommunityName:   "仁愛帝寶",
		TransactionDate: "113/01/15",
		TotalPrice:      50000000,
		Lat:             25.0378,
		Lng:             121.5432,
	}

	payload, normAddr, baseAddr, dateNorm, totalPrice, ok := ListingPayload(listing)
	if !ok {
		t.Fatalf("expected a usable payload")
	}
	if normAddr != "大安區仁愛路三段53號5樓" {
		t.Fatalf("unexpected normalized address: %q", normAddr)
	}
	if baseAddr != "大安區仁愛路三段53" {
		t.Fatalf("unexpected base address: %q", baseAddr)
	}
	if dateNorm != "1130115" {
		t.Fatalf("unexpected normalized date: %q", dateNorm)
	}
	if totalPrice != 50000000 {
		t.Fatalf("unexpected price: %d", totalPrice)
	}
	if payload.CommunityName != "仁愛帝寶" || payload.Lat != 25.0378 {
		t.Fatalf("payload not extracted: %+v", payload)
	}
}

func TestListingPayloadRejectsUnusableRows(t *testing.T) {
	t.Parallel()

	if _, _, _, _, _, ok := ListingPayload(&db.MirrorListing{ID: 1}); ok {
		t.Fatalf("empty address must not produce a payload")
	}
}
