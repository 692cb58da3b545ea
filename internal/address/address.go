package address

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// chineseFloor maps the floor numerals that appear in registry addresses to
// their digit form. Basement floors are negative.
var chineseFloor = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5, "六": 6, "七": 7, "八": 8, "九": 9,
	"十": 10, "十一": 11, "十二": 12, "十三": 13, "十四": 14, "十五": 15,
	"十六": 16, "十七": 17, "十八": 18, "十九": 19, "二十": 20,
	"二十一": 21, "二十二": 22, "二十三": 23, "二十四": 24, "二十五": 25,
	"二十六": 26, "二十七": 27, "二十八": 28, "二十九": 29, "三十": 30,
	"地下一": -1, "地下二": -2, "地下三": -3,
}

var (
	floorNumeralRe  = regexp.MustCompile(`(地下[一二三]|二十[一二三四五六七八九]|三十|二十|十[一二三四五六七八九]|[一二三四五六七八九十])(樓|層)`)
	trailingFloorRe = regexp.MustCompile(`(-\d+|地下\d+|\d+)樓[之\d]*$`)
	afterNumberRe   = regexp.MustCompile(`^[一二三四五六七八九十百零\d]+樓`)
	afterNumberAltRe = regexp.MustCompile(`^(地下)?[一二三四五六七八九十百零\d]+[層F]`)
	districtTailRe  = regexp.MustCompile(`^(.{1,4}?[區鎮鄉市])`)
)

// Normalize canonicalizes an address: fullwidth runes fold to halfwidth,
// 臺 becomes 台, spaces are dropped, and Chinese floor numerals become
// digits ("二十樓" → "20樓"). Deterministic and side-effect-free; the dedup
// and entity-resolution keys are only as good as this function.
func Normalize(raw string) string {
	folded := width.Fold.String(raw)
	folded = strings.ReplaceAll(folded, "臺", "台")
	folded = strings.ReplaceAll(folded, " ", "")
	return floorNumeralRe.ReplaceAllStringFunc(folded, func(m string) string {
		sub := floorNumeralRe.FindStringSubmatch(m)
		if n, ok := chineseFloor[sub[1]]; ok {
			return strconv.Itoa(n) + sub[2]
		}
		return m
	})
}

// StripCity removes a leading county/city name, if present.
func StripCity(addr string) string {
	for _, prefix := range cityPrefixes {
		if strings.HasPrefix(addr, prefix) {
			return addr[len(prefix):]
		}
	}
	return addr
}

// StripFloor removes a trailing floor/unit suffix, yielding the base address
// shared by every unit in the same building.
func StripFloor(addr string) string {
	addr = trailingFloorRe.ReplaceAllString(addr, "")
	return strings.TrimRight(addr, "之号號 ")
}

// StripFloorKeepNumber is the conservative variant used by the community
// backfill: it cuts only what follows the house-number marker, and only when
// that tail is clearly a floor designation.
func StripFloorKeepNumber(addr string) string {
	idx := strings.Index(addr, "號")
	if idx < 0 {
		return addr
	}
	end := idx + len("號")
	rest := addr[end:]
	if afterNumberRe.MatchString(rest) || afterNumberAltRe.MatchString(rest) {
		return addr[:end]
	}
	if strings.TrimSpace(rest) == "" {
		return addr[:end]
	}
	return addr
}

// District extracts the administrative district from the front of an
// address, or returns "".
func District(addr string) string {
	runes := []rune(addr)
	for _, length := range []int{4, 3, 2} {
		if len(runes) < length {
			continue
		}
		candidate := string(runes[:length])
		if _, ok := districtCity[candidate]; ok {
			return candidate
		}
	}
	return ""
}

// DistrictAfterCity extracts the district from an address that may still
// carry a county/city prefix, without requiring the district to be known to
// the districtCity table.
func DistrictAfterCity(addr string) string {
	runes := []rune(addr)
	for _, prefixLen := range []int{3, 2} {
		if len(runes) <= prefixLen {
			continue
		}
		prefix := string(runes[:prefixLen])
		if strings.HasSuffix(prefix, "市") || strings.HasSuffix(prefix, "縣") {
			addr = string(runes[prefixLen:])
			break
		}
	}
	if m := districtTailRe.FindStringSubmatch(addr); m != nil {
		return m[1]
	}
	return ""
}

// HasHouseNumber reports whether the address carries a house-number/lot
// marker. Addresses without one ("市政府路口") cannot identify a building.
func HasHouseNumber(addr string) bool {
	return strings.Contains(addr, "號")
}

// CleanMirrorAddress returns the part of a mirror address after the '#'
// separator the mirror uses between its internal key and the street address.
func CleanMirrorAddress(raw string) string {
	if i := strings.Index(raw, "#"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// NormalizeDate strips the slashes from a locale date, "113/01/15" → "1130115".
func NormalizeDate(date string) string {
	return strings.ReplaceAll(date, "/", "")
}

// SplitFloorInfo splits a combined floor string like "九層/十五層" into the
// transfer floor and the building's total floors.
func SplitFloorInfo(floor string) (level, total string) {
	if floor == "" {
		return "", ""
	}
	parts := strings.SplitN(floor, "/", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(floor), ""
}
