package normalize

import "testing"

func TestName_StripsPunctuationAndDiacritics(t *testing.T) {
	got := Name("Café Déjà-Vu, Inc.")
	if got != "cafe deja vu inc" {
		t.Fatalf("unexpected normalized name: %q", got)
	}
}

func TestNameStripped_RemovesLegalSuffixes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Ltd.", "acme"},
		{"Acme Widgets Incorporated", "acme widgets"},
		{"Northern Lights Corp", "northern lights"},
		{"Smith & Sons Limited", "smith sons"},
		{"Acme", "acme"},
	}
	for _, c := range cases {
		if got := NameStripped(c.in); got != c.want {
			t.Errorf("NameStripped(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNameStripped_NeverErasesWholeName(t *testing.T) {
	if got := NameStripped("Limited"); got != "limited" {
		t.Fatalf("all-suffix name should fall back to unstripped form, got %q", got)
	}
}

func TestNameKey_SameForSuffixVariants(t *testing.T) {
	a := NameKey("Indigenous Tech Solutions Inc")
	b := NameKey("Indigenous Tech Solutions Ltd.")
	if a == "" || a != b {
		t.Fatalf("expected identical blocking keys, got %q vs %q", a, b)
	}
}

func TestPhone_DigitsOnly(t *testing.T) {
	if got := Phone("+1 (555) 123-4567"); got != "15551234567" {
		t.Fatalf("unexpected phone digits: %q", got)
	}
}

func TestPhoneKey_CollapsesCountryCode(t *testing.T) {
	a := PhoneKey("+1 (555) 123-4567")
	b := PhoneKey("5551234567")
	if a != b {
		t.Fatalf("expected matching phone keys, got %q vs %q", a, b)
	}
}

func TestEmailDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Info@Acme.COM", "acme.com"},
		{"no-at-sign", ""},
		{"trailing@", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := EmailDomain(c.in); got != c.want {
			t.Errorf("EmailDomain(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWebsiteHost(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.Acme.com/about?x=1", "acme.com"},
		{"acme.com/", "acme.com"},
		{"http://acme.com:8080/path", "acme.com"},
		{"", ""},
	}
	for _, c := range cases {
		if got := WebsiteHost(c.in); got != c.want {
			t.Errorf("WebsiteHost(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStreet_ExpandsAbbreviations(t *testing.T) {
	if got := Street("123 Main St."); got != "123 main street" {
		t.Fatalf("unexpected street: %q", got)
	}
	if got := Street("45 Portage Ave W"); got != "45 portage avenue west" {
		t.Fatalf("unexpected street: %q", got)
	}
}

func TestCivicNumberAndBody(t *testing.T) {
	if got := CivicNumber("123 Main St"); got != "123" {
		t.Fatalf("unexpected civic number: %q", got)
	}
	if got := StreetBody("123 Main St"); got != "main street" {
		t.Fatalf("unexpected street body: %q", got)
	}
}

func TestPostalCode_IgnoresInternalWhitespace(t *testing.T) {
	if PostalCode("K1A 0B1") != PostalCode("k1a0b1") {
		t.Fatalf("postal codes with and without spaces should normalize equal")
	}
}

func TestBusinessNumber(t *testing.T) {
	if got := BusinessNumber(" 123456789 rc0001 "); got != "123456789RC0001" {
		t.Fatalf("unexpected business number: %q", got)
	}
}

func TestTotality_EmptyInEmptyOut(t *testing.T) {
	if Name("") != "" || Phone("") != "" || Email("") != "" || WebsiteHost("") != "" || Street("") != "" || PostalCode("") != "" || BusinessNumber("") != "" {
		t.Fatalf("empty input must normalize to empty output")
	}
}
