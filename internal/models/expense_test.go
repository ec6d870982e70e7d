package models

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"Rent", CategoryRent, false},
		{"groceries", CategoryGroceries, false},
		{" UTILITIES ", CategoryUtilities, false},
		{"Entertainment", CategoryEntertainment, false},
		{"", CategoryOther, false},
		{"Travel", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryIcon_CoversEveryCategory(t *testing.T) {
	seen := make(map[string]Category)
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("category %q is listed but not valid", c)
		}
		icon := c.Icon()
		if icon == "" {
			t.Errorf("category %q has no icon", c)
		}
		if other, dup := seen[icon]; dup {
			t.Errorf("categories %q and %q share icon %q", c, other, icon)
		}
		seen[icon] = c
	}
	if got := Category("Travel").Icon(); got != CategoryOther.Icon() {
		t.Errorf("unknown category icon = %q, want the Other icon", got)
	}
}

func TestLedgerHasUser(t *testing.T) {
	l := Ledger{Users: []User{{ID: "user-1", Name: "Alex"}}}
	if !l.HasUser("user-1") {
		t.Error("expected user-1 to be known")
	}
	if l.HasUser("user-2") {
		t.Error("expected user-2 to be unknown")
	}

	index := UserIndex(l.Users)
	if index["user-1"].Name != "Alex" {
		t.Errorf("UserIndex lookup = %+v, want Alex", index["user-1"])
	}
}
