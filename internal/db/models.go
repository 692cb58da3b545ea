package db

import (
	"encoding/json"
	"time"

	"github.com/mmcloughlin/geohash"

	"horse.fit/landbase/internal/enrich"
)

// Transaction maps land.transactions, the primary table. One row per
// real-world transaction; identity lives in dedup_key, the bigserial id is
// the monotonic cursor for full-table sweeps.
type Transaction struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`

	District        string `gorm:"column:district;type:text;not null;default:''"`
	TransactionType string `gorm:"column:transaction_type;type:text;not null;default:''"`
	Address         string `gorm:"column:address;type:text;not null;default:''"`
	TransactionDate string `gorm:"column:transaction_date;type:text;not null;default:''"`

	LandArea            float64 `gorm:"column:land_area;type:double precision;not null;default:0"`
	UrbanLandUse        string  `gorm:"column:urban_land_use;type:text;not null;default:''"`
	NonUrbanLandUse     string  `gorm:"column:non_urban_land_use;type:text;not null;default:''"`
	NonUrbanLandUseCode string  `gorm:"column:non_urban_land_use_code;type:text;not null;default:''"`
	TransactionCount    string  `gorm:"column:transaction_count;type:text;not null;default:''"`

	FloorLevel       string  `gorm:"column:floor_level;type:text;not null;default:''"`
	TotalFloors      string  `gorm:"column:total_floors;type:text;not null;default:''"`
	BuildingType     string  `gorm:"column:building_type;type:text;not null;default:''"`
	MainUse          string  `gorm:"column:main_use;type:text;not null;default:''"`
	MainMaterial     string  `gorm:"column:main_material;type:text;not null;default:''"`
	ConstructionDate string  `gorm:"column:construction_date;type:text;not null;default:''"`
	BuildingArea     float64 `gorm:"column:building_area;type:double precision;not null;default:0"`

	Rooms         *int   `gorm:"column:rooms;type:integer"`
	Halls         *int   `gorm:"column:halls;type:integer"`
	Bathrooms     *int   `gorm:"column:bathrooms;type:integer"`
	Partitioned   string `gorm:"column:partitioned;type:text;not null;default:''"`
	HasManagement string `gorm:"column:has_management;type:text;not null;default:''"`
	Elevator      string `gorm:"column:elevator;type:text;not null;default:''"`

	TotalPrice   int64   `gorm:"column:total_price;type:bigint;not null;default:0"`
	UnitPrice    float64 `gorm:"column:unit_price;type:double precision;not null;default:0"`
	ParkingType  string  `gorm:"column:parking_type;type:text;not null;default:''"`
	ParkingArea  float64 `gorm:"column:parking_area;type:double precision;not null;default:0"`
	ParkingPrice int64   `gorm:"column:parking_price;type:bigint;not null;default:0"`

	MainBuildingArea     float64 `gorm:"column:main_building_area;type:double precision;not null;default:0"`
	AttachedBuildingArea float64 `gorm:"column:attached_building_area;type:double precision;not null;default:0"`
	BalconyArea          float64 `gorm:"column:balcony_area;type:double precision;not null;default:0"`

	Note     string `gorm:"column:note;type:text;not null;default:''"`
	SerialNo string `gorm:"column:serial_no;type:text;not null;default:''"`

	// Parsed address components.
	City        string `gorm:"column:city;type:text;not null;default:''"`
	Village     string `gorm:"column:village;type:text;not null;default:''"`
	Street      string `gorm:"column:street;type:text;not null;default:''"`
	Lane        string `gorm:"column:lane;type:text;not null;default:''"`
	Alley       string `gorm:"column:alley;type:text;not null;default:''"`
	HouseNumber string `gorm:"column:house_number;type:text;not null;default:''"`
	Floor       string `gorm:"column:floor;type:text;not null;default:''"`
	SubNumber   string `gorm:"column:sub_number;type:text;not null;default:''"`

	CommunityName string  `gorm:"column:community_name;type:text;not null;default:''"`
	Lat           float64 `gorm:"column:lat;type:double precision;not null;default:0"`
	Lng           float64 `gorm:"column:lng;type:double precision;not null;default:0"`
	Geohash       string  `gorm:"column:geohash;type:text;not null;default:''"`

	DedupKey string `gorm:"column:dedup_key;type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Transaction) TableName() string { return "land.transactions" }

// EnrichPayload extracts the enrichable slice of the row.
func (t *Transaction) EnrichPayload() enrich.Payload {
	return enrich.Payload{
		Lat:             t.Lat,
		Lng:             t.Lng,
		CommunityName:   t.CommunityName,
		BuildingType:    t.BuildingType,
		MainUse:         t.MainUse,
		HasManagement:   t.HasManagement,
		Rooms:           t.Rooms,
		Halls:           t.Halls,
		Bathrooms:       t.Bathrooms,
		BuildingArea:    t.BuildingArea,
		UnitPrice:       t.UnitPrice,
		TransactionType: t.TransactionType,
		FloorLevel:      t.FloorLevel,
		TotalFloors:     t.TotalFloors,
		Note:            t.Note,
	}
}

// RefreshGeohash recomputes the geohash column from the coordinates. Rows
// without coordinates carry an empty geohash.
func (t *Transaction) RefreshGeohash() {
	if t.Lat == 0 || t.Lng == 0 {
		t.Geohash = ""
		return
	}
	t.Geohash = geohash.EncodeWithPrecision(t.Lat, t.Lng, 8)
}

// IngestRun maps land.ingest_runs, the per-run ledger.
type IngestRun struct {
	RunID            int64      `gorm:"column:run_id;primaryKey;autoIncrement"`
	Source           string     `gorm:"column:source;type:text;not null"`
	SourcePath       string     `gorm:"column:source_path;type:text;not null;default:''"`
	StartedAt        time.Time  `gorm:"column:started_at;type:timestamptz;not null;default:now()"`
	FinishedAt       *time.Time `gorm:"column:finished_at;type:timestamptz"`
	Status           string     `gorm:"column:status;type:text;not null;default:running"`
	ItemsScanned     int        `gorm:"column:items_scanned;type:integer;not null;default:0"`
	ItemsInserted    int        `gorm:"column:items_inserted;type:integer;not null;default:0"`
	ItemsEnriched    int        `gorm:"column:items_enriched;type:integer;not null;default:0"`
	ItemsDuplicated  int        `gorm:"column:items_duplicated;type:integer;not null;default:0"`
	ItemsDiscarded   int        `gorm:"column:items_discarded;type:integer;not null;default:0"`
	DiscardNoAddress int        `gorm:"column:discard_no_address;type:integer;not null;default:0"`
	DiscardNoNumber  int        `gorm:"column:discard_no_number;type:integer;not null;default:0"`
	DiscardParse     int        `gorm:"column:discard_parse;type:integer;not null;default:0"`
	ErrorMessage     *string    `gorm:"column:error_message;type:text"`
	CreatedAt        time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (IngestRun) TableName() string { return "land.ingest_runs" }

// MirrorListing maps land.mirror_listings, the local mirror of the listing
// API. Rows arrive from the mirror sync with the provider's raw envelope
// kept in raw_json; the ingest and backfill passes read it, they never
// write it.
type MirrorListing struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Serial          string          `gorm:"column:serial;type:text;not null;default:''"`
	CityCode        string          `gorm:"column:city_code;type:text;not null;default:''"`
	Town            string          `gorm:"column:town;type:text;not null;default:''"`
	Address         string          `gorm:"column:address;type:text;not null;default:''"`
	BuildingType    string          `gorm:"column:building_type;type:text;not null;default:''"`
	CommunityName   string          `gorm:"column:community_name;type:text;not null;default:''"`
	TransactionDate string          `gorm:"column:transaction_date;type:text;not null;default:''"`
	Floor           string          `gorm:"column:floor;type:text;not null;default:''"`
	BuildingArea    float64         `gorm:"column:building_area;type:double precision;not null;default:0"`
	TotalPrice      int64           `gorm:"column:total_price;type:bigint;not null;default:0"`
	UnitPrice       float64         `gorm:"column:unit_price;type:double precision;not null;default:0"`
	Lat             float64         `gorm:"column:lat;type:double precision;not null;default:0"`
	Lng             float64         `gorm:"column:lng;type:double precision;not null;default:0"`
	RawJSON         json.RawMessage `gorm:"column:raw_json;type:jsonb"`
	CreatedAt       time.Time       `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (MirrorListing) TableName() string { return "land.mirror_listings" }

func autoMigrateModels() []any {
	return []any{
		&Transaction{},
		&IngestRun{},
		&MirrorListing{},
	}
}
