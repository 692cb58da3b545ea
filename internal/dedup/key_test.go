package dedup

import "testing"

func TestKeyNormalizesDateAndAddress(t *testing.T) {
	t.Parallel()

	a, ok := Key("1130115", "台北市大安區仁愛路三段53號", 50000000)
	if !ok {
		t.Fatalf("expected key for valid record")
	}
	b, ok := Key("113/01/15", "大安區仁愛路三段53號", 50000000)
	if !ok {
		t.Fatalf("expected key for valid record")
	}
	if a != b {
		t.Fatalf("equivalent records produced distinct keys: %q vs %q", a, b)
	}
	if a != "1130115|大安區仁愛路三段53號|50000000" {
		t.Fatalf("unexpected key shape: %q", a)
	}
}

func TestKeyPriceIsPartOfIdentity(t *testing.T) {
	t.Parallel()

	a, _ := Key("1130115", "大安區仁愛路三段53號", 50000000)
	b, _ := Key("1130115", "大安區仁愛路三段53號", 48000000)
	if a == b {
		t.Fatalf("records differing only in price collapsed onto one key: %q", a)
	}
}

func TestKeyZeroPriceFolds(t *testing.T) {
	t.Parallel()

	key, ok := Key("1130115", "大安區仁愛路三段53號", 0)
	if !ok {
		t.Fatalf("expected key for zero-price record")
	}
	if key != "1130115|大安區仁愛路三段53號|0" {
		t.Fatalf("unexpected zero-price key: %q", key)
	}
}

func TestKeyTruncatesLongDates(t *testing.T) {
	t.Parallel()

	key, _ := Key("113/01/15 10:30", "大安區仁愛路三段53號", 1)
	if key[:7] != "1130115" {
		t.Fatalf("expected date truncated to year-month-day digits: %q", key)
	}
}

func TestKeyEmptyAddress(t *testing.T) {
	t.Parallel()

	if _, ok := Key("1130115", "", 100); ok {
		t.Fatalf("expected no key for empty address")
	}
	if _, ok := Key("1130115", "   ", 100); ok {
		t.Fatalf("expected no key for blank address")
	}
	if _, ok := Key("1130115", "台北市", 100); ok {
		t.Fatalf("expected no key when address is only a city prefix")
	}
}
