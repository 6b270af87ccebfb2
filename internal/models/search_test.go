package models

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"trims and lowercases", "  iPhone 13 Pro  ", "iphone 13 pro"},
		{"collapses whitespace", "apartment\t\n  alger", "apartment alger"},
		{"strips markup", `<script>alert("x")</script>`, "scriptalertxscript"},
		{"strips punctuation", "c'est-à-dire!", "cestàdire"},
		{"keeps arabic", "شقة للايجار", "شقة للايجار"},
		{"mixed scripts", "Appartement شقة 75m2", "appartement شقة 75m2"},
		{"empty", "", ""},
		{"only symbols", "!!!$$$%%%", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeQuery(tc.raw)
			if got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeQueryTruncates(t *testing.T) {
	raw := strings.Repeat("a", 600)
	got := NormalizeQuery(raw)
	if utf8.RuneCountInString(got) != MaxQueryLength {
		t.Fatalf("expected %d chars got %d", MaxQueryLength, utf8.RuneCountInString(got))
	}

	// The budget counts characters, so multi-byte Arabic input keeps the
	// same character length as Latin input.
	arabic := strings.Repeat("ش", 600)
	got = NormalizeQuery(arabic)
	if utf8.RuneCountInString(got) != MaxQueryLength {
		t.Fatalf("expected %d arabic chars got %d", MaxQueryLength, utf8.RuneCountInString(got))
	}
	if !strings.HasPrefix(arabic, got) {
		t.Fatalf("truncated output is not a prefix of the input")
	}
}

func TestValidateQueryLengthCountsCharacters(t *testing.T) {
	// 400 Arabic characters occupy 800 bytes; that is still within the
	// 500-character limit.
	req := validRequest()
	req.Query = strings.Repeat("ش", 400)
	if errs := req.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors for 400 arabic chars, got %v", errs)
	}

	req.Query = strings.Repeat("ش", 501)
	found := false
	for _, e := range req.Validate() {
		if strings.Contains(e, "query too long") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected query too long for 501 chars")
	}

	req = validRequest()
	req.Wilaya = strings.Repeat("ش", 100)
	if errs := req.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors for 100 arabic filter chars, got %v", errs)
	}
}

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
	}
	for _, tc := range cases {
		if got := EscapeLike(tc.in); got != tc.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func validRequest() SearchRequest {
	return SearchRequest{Query: "iphone", Page: 1, PageSize: 20}
}

func TestSearchRequestValidate(t *testing.T) {
	floatPtr := func(v float64) *float64 { return &v }

	cases := []struct {
		name    string
		mutate  func(*SearchRequest)
		wantErr string
	}{
		{"valid", func(r *SearchRequest) {}, ""},
		{"bad category", func(r *SearchRequest) { r.Category = "weapons" }, "invalid category"},
		{"bad sort", func(r *SearchRequest) { r.SortBy = "cheapest" }, "invalid sortBy"},
		{"page zero", func(r *SearchRequest) { r.Page = 0 }, "invalid page"},
		{"page too deep", func(r *SearchRequest) { r.Page = 1001 }, "invalid page"},
		{"page size zero", func(r *SearchRequest) { r.PageSize = 0 }, "invalid pageSize"},
		{"page size too big", func(r *SearchRequest) { r.PageSize = 101 }, "invalid pageSize"},
		{"negative min price", func(r *SearchRequest) { r.MinPrice = floatPtr(-1) }, "invalid minPrice"},
		{"inverted price range", func(r *SearchRequest) {
			r.MinPrice = floatPtr(100000)
			r.MaxPrice = floatPtr(50000)
		}, "minPrice cannot be greater than maxPrice"},
		{"inverted salary range", func(r *SearchRequest) {
			r.MinSalary = floatPtr(90000)
			r.MaxSalary = floatPtr(30000)
		}, "minSalary cannot be greater than maxSalary"},
		{"oversized wilaya", func(r *SearchRequest) { r.Wilaya = strings.Repeat("x", 101) }, "wilaya too long"},
		{"oversized subcategory", func(r *SearchRequest) { r.Subcategory = strings.Repeat("x", 101) }, "subcategory too long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			errs := req.Validate()
			if tc.wantErr == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tc.wantErr) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, errs)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	bad := SearchRequest{Category: "nope", SortBy: "nope", Page: 0, PageSize: 0}
	errs := bad.Validate()
	if len(errs) < 4 {
		t.Fatalf("expected all problems reported, got %v", errs)
	}
}

func TestHasFilter(t *testing.T) {
	price := 10.0
	cases := []struct {
		name string
		req  SearchRequest
		want bool
	}{
		{"empty", SearchRequest{}, false},
		{"category", SearchRequest{Category: CategoryForSale}, true},
		{"wilaya", SearchRequest{Wilaya: "Alger"}, true},
		{"city", SearchRequest{City: "Oran"}, true},
		{"price bound", SearchRequest{MinPrice: &price}, true},
		{"query only is not a filter", SearchRequest{Query: "iphone"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.req.HasFilter(); got != tc.want {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}
}
