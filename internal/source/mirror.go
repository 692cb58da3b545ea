package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/landbase/internal/address"
	"horse.fit/landbase/internal/db"
	"horse.fit/landbase/internal/enrich"
)

// Mirror reads the local listing-API mirror table in id order.
type Mirror struct {
	pool      *db.Pool
	chunkSize int
	logger    zerolog.Logger
}

func NewMirror(pool *db.Pool, chunkSize int, logger zerolog.Logger) *Mirror {
	if chunkSize < 1 {
		chunkSize = 50000
	}
	return &Mirror{
		pool:      pool,
		chunkSize: chunkSize,
		logger:    logger.With().Str("source", "mirror").Logger(),
	}
}

func (m *Mirror) Name() string { return "mirror" }

func (m *Mirror) Each(ctx context.Context, fn func(Result) error) error {
	afterID := int64(0)
	for {
		rows, err := m.pool.ScanMirrorListings(ctx, afterID, m.chunkSize)
		if err != nil {
			return fmt.Errorf("read mirror chunk: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			if err := fn(MapListing(&rows[i])); err != nil {
				return err
			}
		}
		afterID = rows[len(rows)-1].ID
	}
}

// MapListing converts one mirror row into a transaction record. The column
// values win over the raw envelope; the envelope fills what the columns
// lack.
func MapListing(listing *db.MirrorListing) Result {
	rawAddr := strings.TrimSpace(listing.Address)
	if rawAddr == "" || rawAddr == "#" {
		return Result{Discard: DiscardMissingAddress}
	}

	envelope, err := ValidateMirrorEnvelope(listing.RawJSON)
	if err != nil {
		return Result{Discard: DiscardParseFailure}
	}

	addrClean := address.CleanMirrorAddress(rawAddr)

	floorRaw := envString(envelope, "f")
	if floorRaw == "" {
		floorRaw = listing.Floor
	}
	floorLevel, totalFloors := address.SplitFloorInfo(address.Normalize(floorRaw))

	mainUse := envString(envelope, "pu")
	if mainUse == "" {
		mainUse = envString(envelope, "AA11")
	}

	buildingType := listing.BuildingType
	if buildingType == "" {
		buildingType = envString(envelope, "b")
	}

	totalPrice := listing.TotalPrice
	if totalPrice == 0 {
		totalPrice = safePrice(envNumeric(envelope, "tp"))
	}
	unitPrice := listing.UnitPrice
	if unitPrice == 0 {
		unitPrice = safeFloat(envNumeric(envelope, "cp"))
	}
	buildingArea := listing.BuildingArea
	if buildingArea == 0 {
		buildingArea = safeFloat(envNumeric(envelope, "s"))
	}

	serialNo := ""
	if listing.Serial != "" {
		serialNo = "591_" + listing.Serial
	}

	t := &db.Transaction{
		District:        listing.Town,
		TransactionType: envString(envelope, "t"),
		Address:         addrClean,
		TransactionDate: address.NormalizeDate(listing.TransactionDate),
		FloorLevel:      floorLevel,
		TotalFloors:     totalFloors,
		BuildingType:    buildingType,
		MainUse:         mainUse,
		BuildingArea:    buildingArea,
		Rooms:           safeCount(envNumeric(envelope, "j")),
		Halls:           safeCount(envNumeric(envelope, "k")),
		Bathrooms:       safeCount(envNumeric(envelope, "l")),
		HasManagement:   envString(envelope, "m"),
		TotalPrice:      totalPrice,
		UnitPrice:       unitPrice,
		Note:            envString(envelope, "note"),
		SerialNo:        serialNo,
		CommunityName:   strings.TrimSpace(listing.CommunityName),
		Lat:             listing.Lat,
		Lng:             listing.Lng,
	}

	fillComponents(t, listing.Town)
	if t.City == "" {
		t.City = address.CityForCode(listing.CityCode)
	}
	return Result{Record: t}
}

// ListingPayload extracts the enrichable payload and the three
// entity-resolution keys from one mirror row, for the bulk backfill maps.
func ListingPayload(listing *db.MirrorListing) (payload enrich.Payload, normAddr, baseAddr, dateNorm string, totalPrice int64, ok bool) {
	res := MapListing(listing)
	if res.Discard != DiscardNone {
		return enrich.Payload{}, "", "", "", 0, false
	}
	record := res.Record

	normAddr = address.StripCity(address.Normalize(record.Address))
	if normAddr == "" {
		return enrich.Payload{}, "", "", "", 0, false
	}
	baseAddr = address.StripFloor(normAddr)
	dateNorm = record.TransactionDate
	return record.EnrichPayload(), normAddr, baseAddr, dateNorm, record.TotalPrice, true
}
