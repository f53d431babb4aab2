package service

import (
	"testing"

	"ausmass_backend/internal/bexio"
	"ausmass_backend/internal/sync/repository"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestBuildRoomPositionsEmptyRoom(t *testing.T) {
	room := repository.Room{ID: uuid.New(), Name: "Keller"}
	if got := buildRoomPositions(room, nil, nil); got != nil {
		t.Fatalf("empty room produced %d positions, want none", len(got))
	}
}

func TestBuildRoomPositionsHeaderAndGrouping(t *testing.T) {
	room := repository.Room{ID: uuid.New(), Name: "Küche"}
	measurements := []repository.Measurement{
		{Category: "Decke weisseln", Quantity: 12, Unit: "m2"},
		{Category: "Decke weisseln", Quantity: 3, Unit: "m2"},
		{Category: "Sockelleisten", Quantity: 8, Unit: "lfm"},
	}
	settings := map[string]repository.CategorySetting{
		"Decke weisseln": {Category: "Decke weisseln", OfferTitle: "Decke weisseln inkl. Vorarbeiten", TaxRate: 8.1, UnitPrice: 18.5},
	}

	positions := buildRoomPositions(room, measurements, settings)
	if len(positions) != 4 {
		t.Fatalf("got %d positions, want header + 3 measurements", len(positions))
	}

	header := positions[0]
	if header.Type != bexio.PositionText {
		t.Errorf("header type = %v, want text", header.Type)
	}
	if header.Text != "<strong><u>Küche</u></strong>" {
		t.Errorf("header text = %q", header.Text)
	}

	first := positions[1]
	if first.Type != bexio.PositionCustom {
		t.Errorf("first measurement type = %v, want custom", first.Type)
	}
	if first.Text != "<strong>Decke weisseln inkl. Vorarbeiten</strong>" {
		t.Errorf("first measurement text = %q", first.Text)
	}
	if first.Amount != 12 || first.UnitPrice != 18.5 || first.TaxRate != 8.1 {
		t.Errorf("first measurement = %+v", first)
	}
	if first.UnitName != "m2" {
		t.Errorf("first measurement unit = %q, want m2", first.UnitName)
	}

	last := positions[3]
	if last.UnitName != "m" {
		t.Errorf("lfm mapped to %q, want m", last.UnitName)
	}
	// No catalog entry for Sockelleisten: category is the title, price 0,
	// default tax rate.
	if last.Text != "<strong>Sockelleisten</strong>" {
		t.Errorf("last measurement text = %q", last.Text)
	}
	if last.UnitPrice != 0 || last.TaxRate != 8.1 {
		t.Errorf("last measurement = %+v", last)
	}
}

func TestBuildMeasurementPositionDefaults(t *testing.T) {
	m := repository.Measurement{Category: "  Tapezieren  ", Quantity: 0, Unit: "pauschal"}

	pos := buildMeasurementPosition(nil, m.Category, m)
	if pos.Amount != 1 {
		t.Errorf("zero quantity amount = %v, want 1", pos.Amount)
	}
	if pos.UnitName != "Stk" {
		t.Errorf("pauschal unit = %q, want Stk", pos.UnitName)
	}
	if pos.Text != "<strong>Tapezieren</strong>" {
		t.Errorf("text = %q, want trimmed title", pos.Text)
	}
}

func TestBuildMeasurementPositionBody(t *testing.T) {
	setting := &repository.CategorySetting{
		Category:         "Waende streichen",
		OfferTitle:       "Wände streichen",
		OfferDescription: strPtr("Weiss, matt"),
		TaxRate:          8.1,
		UnitPrice:        22,
	}
	m := repository.Measurement{
		Category:    "Waende streichen",
		Description: "Nordwand",
		Quantity:    14,
		Unit:        "m2",
		Notes:       "Vorsicht Fenster",
	}

	pos := buildMeasurementPosition(setting, m.Category, m)
	want := "<strong>Wände streichen</strong><br/><br/>" +
		"Weiss, matt<br/><br/>Nordwand<br/><br/>Hinweis: Vorsicht Fenster"
	if pos.Text != want {
		t.Fatalf("text = %q, want %q", pos.Text, want)
	}
}

func TestBuildMeasurementPositionAttributeTokens(t *testing.T) {
	m := repository.Measurement{
		Category:    "Waende streichen",
		Description: "Decke  streichen   Farbton: RAL 9010 Applikationsart: Rollen",
		Quantity:    5,
		Unit:        "m2",
	}

	pos := buildMeasurementPosition(nil, m.Category, m)
	want := "<strong>Waende streichen</strong><br/><br/>" +
		"Decke  streichen<br/><br/>" +
		"Farbton: RAL 9010<br/>Applikationsart: Rollen"
	if pos.Text != want {
		t.Fatalf("text = %q, want %q", pos.Text, want)
	}
}

func TestSplitAttributeLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"no tokens",
			"Decke streichen",
			[]string{"Decke streichen"},
		},
		{
			"token at start",
			"Farbton: NCS S 0500-N",
			[]string{"Farbton: NCS S 0500-N"},
		},
		{
			"text then both tokens",
			"Decke streichen Farbton: RAL 9010 Applikationsart: Rollen",
			[]string{"Decke streichen", "Farbton: RAL 9010", "Applikationsart: Rollen"},
		},
		{
			"collapses whitespace in token block",
			"Farbton:   RAL  9010   Applikationsart:  Spritzen",
			[]string{"Farbton: RAL 9010", "Applikationsart: Spritzen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAttributeLines(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestGroupByCategoryKeepsFirstAppearanceOrder(t *testing.T) {
	measurements := []repository.Measurement{
		{Category: "A"},
		{Category: "B"},
		{Category: "A"},
	}

	groups := groupByCategory(measurements)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].category != "A" || len(groups[0].items) != 2 {
		t.Errorf("group 0 = %q with %d items", groups[0].category, len(groups[0].items))
	}
	if groups[1].category != "B" || len(groups[1].items) != 1 {
		t.Errorf("group 1 = %q with %d items", groups[1].category, len(groups[1].items))
	}
}
