package backfill

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/landbase/internal/address"
	"horse.fit/landbase/internal/db"
	"horse.fit/landbase/internal/source"
)

// CommunityStore is the write surface of the community backfill.
type CommunityStore interface {
	CountCommunityBackfillTargets(ctx context.Context, district, pattern string) (int64, error)
	BackfillCommunity(ctx context.Context, district, pattern, community string) (int64, error)
}

// CommunityRule maps one building, identified by its county/city, district
// and floor-stripped road number, to the community name the mirror most
// often reports for it. The city keeps same-named districts in different
// counties apart; the applied UPDATE matches on district and address alone.
type CommunityRule struct {
	City       string
	District   string
	RoadNumber string
	Community  string
}

// CommunityStats summarize one community backfill pass.
type CommunityStats struct {
	MirrorRows int
	Rules      int
	Applied    int
	Rows       int64
}

type buildingKey struct {
	city       string
	district   string
	roadNumber string
}

type Community struct {
	reader Reader
	store  CommunityStore
	opts   Options
	logger zerolog.Logger
}

func NewCommunity(reader Reader, store CommunityStore, opts Options, logger zerolog.Logger) *Community {
	return &Community{
		reader: reader,
		store:  store,
		opts:   opts.withDefaults(),
		logger: logger.With().Str("component", "community-backfill").Logger(),
	}
}

// Run derives community rules from the mirror and applies them. In dry-run
// mode it only counts the rows each rule would touch.
func (c *Community) Run(ctx context.Context) (CommunityStats, error) {
	var stats CommunityStats
	rules, err := c.buildRules(ctx, &stats)
	if err != nil {
		return stats, err
	}
	stats.Rules = len(rules)
	c.logger.Info().
		Int("mirror_rows", stats.MirrorRows).
		Int("rules", stats.Rules).
		Msg("community rules built")

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		pattern := "%" + rule.District + rule.RoadNumber + "%"
		var rows int64
		if c.opts.DryRun {
			rows, err = c.store.CountCommunityBackfillTargets(ctx, rule.District, pattern)
		} else {
			rows, err = c.store.BackfillCommunity(ctx, rule.District, pattern, rule.Community)
		}
		if err != nil {
			return stats, fmt.Errorf("apply community rule %s%s: %w", rule.District, rule.RoadNumber, err)
		}
		if rows > 0 {
			stats.Applied++
			stats.Rows += rows
		}
	}

	c.logger.Info().
		Int("applied", stats.Applied).
		Int64("rows", stats.Rows).
		Bool("dry_run", c.opts.DryRun).
		Msg("community backfill finished")
	return stats, nil
}

// buildRules scans the mirror and, per building, picks the community name
// seen most often. Ties break on the lexicographically smaller name so the
// pass is deterministic.
func (c *Community) buildRules(ctx context.Context, stats *CommunityStats) ([]CommunityRule, error) {
	counts := make(map[buildingKey]map[string]int)
	afterID := int64(0)
	for {
		rows, err := c.reader.ScanMirrorListings(ctx, afterID, c.opts.ChunkSize)
		if err != nil {
			return nil, fmt.Errorf("read mirror for community rules: %w", err)
		}
		if len(rows) == 0 {
			break
		}
		for i := range rows {
			key, community, ok := communityObservation(&rows[i])
			if !ok {
				continue
			}
			stats.MirrorRows++
			if counts[key] == nil {
				counts[key] = make(map[string]int)
			}
			counts[key][community]++
		}
		afterID = rows[len(rows)-1].ID
	}

	rules := make([]CommunityRule, 0, len(counts))
	for key, names := range counts {
		best, bestCount := "", 0
		for name, count := range names {
			if count > bestCount || (count == bestCount && name < best) {
				best, bestCount = name, count
			}
		}
		rules = append(rules, CommunityRule{
			City:       key.city,
			District:   key.district,
			RoadNumber: key.roadNumber,
			Community:  best,
		})
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].City != rules[j].City {
			return rules[i].City < rules[j].City
		}
		if rules[i].District != rules[j].District {
			return rules[i].District < rules[j].District
		}
		return rules[i].RoadNumber < rules[j].RoadNumber
	})
	return rules, nil
}

// communityObservation extracts one (building, community) observation from a
// mirror row, or reports that the row contributes nothing.
func communityObservation(listing *db.MirrorListing) (buildingKey, string, bool) {
	community := strings.TrimSpace(listing.CommunityName)
	if community == "" {
		return buildingKey{}, "", false
	}

	res := source.MapListing(listing)
	if res.Discard != source.DiscardNone {
		return buildingKey{}, "", false
	}
	record := res.Record

	norm := address.StripCity(address.Normalize(record.Address))
	district := record.District
	if district == "" {
		district = address.District(norm)
	}
	if district == "" {
		return buildingKey{}, "", false
	}
	roadNumber := strings.TrimPrefix(norm, district)
	roadNumber = address.StripFloorKeepNumber(roadNumber)
	if !address.HasHouseNumber(roadNumber) {
		return buildingKey{}, "", false
	}
	// The mirror's city code is authoritative; districts like 東區 exist in
	// several counties, so the parsed city alone can point at the wrong one.
	city := address.CityForCode(listing.CityCode)
	if city == "" {
		city = record.City
	}
	return buildingKey{city: city, district: district, roadNumber: roadNumber}, community, true
}
