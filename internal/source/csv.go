package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/landbase/internal/address"
	"horse.fit/landbase/internal/db"
)

// csvColumns maps the government export's Chinese headers to record fields.
// The first header cell may carry a BOM; it is stripped before lookup.
var csvColumns = map[string]string{
	"鄉鎮市區":           "district",
	"交易標的":           "transaction_type",
	"土地位置建物門牌":       "address",
	"土地移轉總面積平方公尺":    "land_area",
	"都市土地使用分區":       "urban_land_use",
	"非都市土地使用分區":      "non_urban_land_use",
	"非都市土地使用編定":      "non_urban_land_use_code",
	"交易年月日":          "transaction_date",
	"交易筆棟數":          "transaction_count",
	"移轉層次":           "floor_level",
	"總樓層數":           "total_floors",
	"建物型態":           "building_type",
	"主要用途":           "main_use",
	"主要建材":           "main_material",
	"建築完成年月":         "construction_date",
	"建物移轉總面積平方公尺":    "building_area",
	"建物現況格局-房":       "rooms",
	"建物現況格局-廳":       "halls",
	"建物現況格局-衛":       "bathrooms",
	"建物現況格局-隔間":      "partitioned",
	"有無管理組織":         "has_management",
	"總價元":            "total_price",
	"單價元平方公尺":        "unit_price",
	"車位類別":           "parking_type",
	"車位移轉總面積(平方公尺)": "parking_area",
	"車位總價元":          "parking_price",
	"備註":             "note",
	"編號":             "serial_no",
	"主建物面積":          "main_building_area",
	"附屬建物面積":         "attached_building_area",
	"陽台面積":           "balcony_area",
	"電梯":             "elevator",
}

// CSV reads one government bulk export file.
type CSV struct {
	path   string
	logger zerolog.Logger
}

func NewCSV(path string, logger zerolog.Logger) *CSV {
	return &CSV{
		path:   path,
		logger: logger.With().Str("source", "csv").Str("path", path).Logger(),
	}
}

func (c *CSV) Name() string { return "csv" }

// Each streams every data row. The export carries a second header row with
// English column names ("The villages ..."); it is skipped, not discarded.
func (c *CSV) Each(ctx context.Context, fn func(Result) error) error {
	f, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("open csv %q: %w", c.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	index := indexHeader(header)
	if _, ok := index["address"]; !ok {
		return fmt.Errorf("csv %q has no address column", c.path)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// Structurally broken row; count it, keep reading.
			if parseErr := fn(Result{Discard: DiscardParseFailure}); parseErr != nil {
				return parseErr
			}
			continue
		}
		if isEnglishHeaderRow(row) {
			continue
		}
		if err := fn(c.mapRow(index, row)); err != nil {
			return err
		}
	}
}

func indexHeader(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimPrefix(strings.TrimSpace(cell), "\ufeff")
		if field, ok := csvColumns[name]; ok {
			index[field] = i
		}
	}
	return index
}

func isEnglishHeaderRow(row []string) bool {
	return len(row) > 0 && strings.HasPrefix(strings.TrimSpace(row[0]), "The ")
}

func (c *CSV) mapRow(index map[string]int, row []string) Result {
	cell := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	t := &db.Transaction{
		District:             cell("district"),
		TransactionType:      cell("transaction_type"),
		Address:              cell("address"),
		TransactionDate:      address.NormalizeDate(cell("transaction_date")),
		LandArea:             safeFloat(cell("land_area")),
		UrbanLandUse:         cell("urban_land_use"),
		NonUrbanLandUse:      cell("non_urban_land_use"),
		NonUrbanLandUseCode:  cell("non_urban_land_use_code"),
		TransactionCount:     cell("transaction_count"),
		FloorLevel:           cell("floor_level"),
		TotalFloors:          cell("total_floors"),
		BuildingType:         cell("building_type"),
		MainUse:              cell("main_use"),
		MainMaterial:         cell("main_material"),
		ConstructionDate:     cell("construction_date"),
		BuildingArea:         safeFloat(cell("building_area")),
		Rooms:                safeCount(cell("rooms")),
		Halls:                safeCount(cell("halls")),
		Bathrooms:            safeCount(cell("bathrooms")),
		Partitioned:          cell("partitioned"),
		HasManagement:        cell("has_management"),
		TotalPrice:           safePrice(cell("total_price")),
		UnitPrice:            safeFloat(cell("unit_price")),
		ParkingType:          cell("parking_type"),
		ParkingArea:          safeFloat(cell("parking_area")),
		ParkingPrice:         safePrice(cell("parking_price")),
		Note:                 cell("note"),
		SerialNo:             cell("serial_no"),
		MainBuildingArea:     safeFloat(cell("main_building_area")),
		AttachedBuildingArea: safeFloat(cell("attached_building_area")),
		BalconyArea:          safeFloat(cell("balcony_area")),
		Elevator:             cell("elevator"),
	}

	fillComponents(t, t.District)
	return Result{Record: t}
}

// fillComponents parses the address into its structural pieces and derives
// the county/city.
func fillComponents(t *db.Transaction, districtHint string) {
	c := address.Parse(t.Address, districtHint)
	t.City = c.City
	if c.District != "" {
		t.District = c.District
	}
	t.Village = c.Village
	t.Street = c.Street
	t.Lane = c.Lane
	t.Alley = c.Alley
	t.HouseNumber = c.Number
	t.Floor = c.Floor
	t.SubNumber = c.SubNumber
}
