package dedup

import (
	"strconv"
	"strings"

	"horse.fit/landbase/internal/address"
)

// Key derives the composite identity key for a transaction:
// year-month of the date, city-stripped normalized address, and the integer
// total price joined with '|'. Price is part of identity: same day, same
// address, different price is a different transaction. A missing price folds
// to 0 and stays in the key.
//
// ok is false only when the address normalizes to nothing; such records carry
// no key and are inserted unconditionally.
func Key(date, addr string, totalPrice int64) (key string, ok bool) {
	normAddr := address.StripCity(address.Normalize(addr))
	if normAddr == "" {
		return "", false
	}
	normDate := address.NormalizeDate(strings.TrimSpace(date))
	if len(normDate) > 7 {
		normDate = normDate[:7]
	}
	return normDate + "|" + normAddr + "|" + strconv.FormatInt(totalPrice, 10), true
}
