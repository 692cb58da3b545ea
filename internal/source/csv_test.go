package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv fixture: %v", err)
	}
	return path
}

func collect(t *testing.T, src Source) []Result {
	t.Helper()
	var results []Result
	err := src.Each(context.Background(), func(res Result) error {
		results = append(results, res)
		return nil
	})
	if err != nil {
		t.Fatalf("each: %v", err)
	}
	return results
}

func TestCSVEachMapsRows(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"\ufeff" + "鄉鎮市區,交易標的,土地位置建物門牌,交易年月日,總價元,單價元平方公尺,建物現況格局-房,建物現況格局-廳,建物移轉總面積平方公尺,建物型態,編號",
		"The villages and towns urban district,The transaction sign,The land sector position building sector house number plate,transaction year month and day,the total price NT,the unit price NT,building present situation pattern room,building present situation pattern hall,building shifting total area,building state,serial number",
		"大安區,房地(土地+建物),台北市大安區仁愛路三段53號5樓,1130115,\"50,000,000\",650000,3,2,76.5,住宅大樓,RPUOMLOKNHPFFAA37CA",
	}, "\n")

	results := collect(t, NewCSV(writeCSV(t, content), zerolog.Nop()))
	if len(results) != 1 {
		t.Fatalf("expected 1 record, got %d", len(results))
	}
	res := results[0]
	if res.Discard != DiscardNone {
		t.Fatalf("unexpected discard: %v", res.Discard)
	}
	record := res.Record
	if record.Address != "台北市大安區仁愛路三段53號5樓" {
		t.Fatalf("unexpected address: %q", record.Address)
	}
	if record.TransactionDate != "1130115" {
		t.Fatalf("date not normalized: %q", record.TransactionDate)
	}
	if record.TotalPrice != 50000000 {
		t.Fatalf("comma price not coerced: %d", record.TotalPrice)
	}
	if record.Rooms == nil || *record.Rooms != 3 {
		t.Fatalf("rooms not parsed: %v", record.Rooms)
	}
	if record.BuildingArea != 76.5 {
		t.Fatalf("building area not parsed: %v", record.BuildingArea)
	}
	if record.District != "大安區" {
		t.Fatalf("unexpected district: %q", record.District)
	}
	if record.City != "台北市" {
		t.Fatalf("city not derived: %q", record.City)
	}
	if record.HouseNumber != "53號" {
		t.Fatalf("house number not parsed: %q", record.HouseNumber)
	}
	if record.SerialNo != "RPUOMLOKNHPFFAA37CA" {
		t.Fatalf("unexpected serial: %q", record.SerialNo)
	}
}

func TestCSVEachNormalizesDateSlashes(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"鄉鎮市區,土地位置建物門牌,交易年月日,總價元",
		"大安區,台北市大安區仁愛路三段53號,113/01/15,50000000",
	}, "\n")

	results := collect(t, NewCSV(writeCSV(t, content), zerolog.Nop()))
	if len(results) != 1 {
		t.Fatalf("expected 1 record, got %d", len(results))
	}
	if got := results[0].Record.TransactionDate; got != "1130115" {
		t.Fatalf("slash date not normalized: %q", got)
	}
}

func TestCSVEachLeavesBlankCountsNil(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"鄉鎮市區,土地位置建物門牌,交易年月日,建物現況格局-房,建物現況格局-廳,建物現況格局-衛",
		"大安區,台北市大安區仁愛路三段53號,1130115,,,x",
	}, "\n")

	results := collect(t, NewCSV(writeCSV(t, content), zerolog.Nop()))
	record := results[0].Record
	if record.Rooms != nil || record.Halls != nil || record.Bathrooms != nil {
		t.Fatalf("blank and garbage counts must stay nil: %v %v %v",
			record.Rooms, record.Halls, record.Bathrooms)
	}
}

func TestCSVEachRejectsFileWithoutAddressColumn(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"鄉鎮市區,交易年月日",
		"大安區,1130115",
	}, "\n")

	err := NewCSV(writeCSV(t, content), zerolog.Nop()).Each(context.Background(), func(Result) error {
		t.Fatal("no rows should be yielded")
		return nil
	})
	if err == nil {
		t.Fatalf("expected an error for a file without an address column")
	}
}

func TestCSVEachMissingFileErrors(t *testing.T) {
	t.Parallel()

	err := NewCSV(filepath.Join(t.TempDir(), "absent.csv"), zerolog.Nop()).
		Each(context.Background(), func(Result) error { return nil })
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
