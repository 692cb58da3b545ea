package address

import "regexp"

// Components is the structural breakdown of a street address.
type Components struct {
	City      string
	District  string
	Village   string
	Street    string
	Lane      string
	Alley     string
	Number    string
	Floor     string
	SubNumber string
}

var (
	villageRe   = regexp.MustCompile(`^(.{1,5}?[村里])`)
	streetRe    = regexp.MustCompile(`^(.{1,8}?(?:路|街|大道|道)(?:[一二三四五六七八九十\d]+段)?)`)
	laneRe      = regexp.MustCompile(`^([\d一二三四五六七八九十]+巷)`)
	alleyRe     = regexp.MustCompile(`^([\d一二三四五六七八九十]+弄)`)
	numberRe    = regexp.MustCompile(`^((?:地下)?\d*[-之]?\d+號|\d+號)`)
	floorRe     = regexp.MustCompile(`^((?:地下)?-?\d+樓|(?:地下)?[一二三四五六七八九十百\d]+[樓層F])`)
	subNumberRe = regexp.MustCompile(`^之(\d+)`)
)

// Parse breaks a raw address into components. Normalization runs first, so
// the pieces line up with what the identity key and entity-resolution maps
// see. districtHint fills the district when the address itself does not
// carry one.
func Parse(raw, districtHint string) Components {
	addr := Normalize(raw)
	var c Components

	for _, prefix := range cityPrefixes {
		if len(addr) >= len(prefix) && addr[:len(prefix)] == prefix {
			c.City = prefix
			addr = addr[len(prefix):]
			break
		}
	}

	if d := District(addr); d != "" {
		c.District = d
		addr = addr[len(d):]
	} else if districtHint != "" {
		c.District = Normalize(districtHint)
	}
	if c.City == "" && c.District != "" {
		c.City = CityForDistrict(c.District)
	}

	if m := villageRe.FindStringSubmatch(addr); m != nil {
		c.Village = m[1]
		addr = addr[len(m[1]):]
	}
	if m := streetRe.FindStringSubmatch(addr); m != nil {
		c.Street = m[1]
		addr = addr[len(m[1]):]
	}
	if m := laneRe.FindStringSubmatch(addr); m != nil {
		c.Lane = m[1]
		addr = addr[len(m[1]):]
	}
	if m := alleyRe.FindStringSubmatch(addr); m != nil {
		c.Alley = m[1]
		addr = addr[len(m[1]):]
	}
	if m := numberRe.FindStringSubmatch(addr); m != nil {
		c.Number = m[1]
		addr = addr[len(m[1]):]
	}
	if m := floorRe.FindStringSubmatch(addr); m != nil {
		c.Floor = m[1]
		addr = addr[len(m[1]):]
	}
	if m := subNumberRe.FindStringSubmatch(addr); m != nil {
		c.SubNumber = m[1]
	}

	return c
}
