package commands

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/d697/bdobot/db"
	"github.com/d697/bdobot/items"
	"github.com/d697/bdobot/lookup"
	"github.com/d697/bdobot/market"
	"github.com/disgoorg/disgo/discord"
)

func testCatalog() *items.Index {
	return items.New([]items.Item{
		{ID: 16001, Name: "Black Stone (Weapon)", MainCategory: 35},
		{ID: 16002, Name: "Black Stone (Armor)", MainCategory: 35},
		{ID: 12031, Name: "Ogre Ring", MainCategory: 20},
		{ID: 719899, Name: "Leath's Gloves", MainCategory: 15},
		{ID: 705509, Name: "Kzarka Longsword", MainCategory: 1},
	})
}

func TestQueueFields(t *testing.T) {
	t.Parallel()

	live := time.Unix(1_700_000_000, 0)
	fields := queueFields(testCatalog(), []market.WaitListItem{
		{ItemID: 12031, EnhancementLevel: 3, Price: 1_250_000_000, LiveAt: live},
		{ItemID: 719899, EnhancementLevel: 5, Price: 90_000_000, LiveAt: live},
		{ItemID: 705509, EnhancementLevel: 18, Price: 2_000_000_000, LiveAt: live},
		{ItemID: 99, EnhancementLevel: 0, Price: 1000, LiveAt: live},
	})

	want := []discord.EmbedField{
		{Name: "TRI (III): Ogre Ring", Value: "1,250,000,000 silver\n Live: <t:1700000000:R>"},
		{Name: "PEN (V): Leath's Gloves (Damage Reduction)", Value: "90,000,000 silver\n Live: <t:1700000000:R>"},
		{Name: "TRI (III): Kzarka Longsword", Value: "2,000,000,000 silver\n Live: <t:1700000000:R>"},
		{Name: "Item 99", Value: "1,000 silver\n Live: <t:1700000000:R>"},
	}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i := range want {
		if fields[i].Name != want[i].Name || fields[i].Value != want[i].Value {
			t.Errorf("field %d got %q / %q, want %q / %q", i, fields[i].Name, fields[i].Value, want[i].Name, want[i].Value)
		}
	}
}

func TestQueueEmbeds(t *testing.T) {
	t.Parallel()

	makeFields := func(n int) []discord.EmbedField {
		fields := make([]discord.EmbedField, n)
		for i := range fields {
			fields[i] = discord.EmbedField{Name: fmt.Sprint(i), Value: "v"}
		}
		return fields
	}

	tests := []struct {
		fields     int
		wantEmbeds []int
		numbered   bool
	}{
		{1, []int{1}, false},
		{25, []int{25}, false},
		{26, []int{25, 1}, true},
		{60, []int{25, 25, 10}, true},
	}

	for _, tt := range tests {
		embeds := queueEmbeds(market.RegionNA, makeFields(tt.fields), time.Now())
		if len(embeds) != len(tt.wantEmbeds) {
			t.Errorf("%d fields: got %d embeds, want %d", tt.fields, len(embeds), len(tt.wantEmbeds))
			continue
		}
		for i, e := range embeds {
			if len(e.Fields) != tt.wantEmbeds[i] {
				t.Errorf("%d fields: embed %d has %d fields, want %d", tt.fields, i, len(e.Fields), tt.wantEmbeds[i])
			}
			wantTitle := "North America Registration Queue"
			if tt.numbered {
				wantTitle = fmt.Sprintf("%s Part %d", wantTitle, i+1)
			}
			if e.Title != wantTitle {
				t.Errorf("%d fields: embed %d title got %q, want %q", tt.fields, i, e.Title, wantTitle)
			}
		}
	}
}

func TestTaxText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p    db.Profile
		want string
	}{
		{db.Profile{}, "You are given 65.000% of the value of the item."},
		{db.Profile{ValuePack: true}, "You are given 84.500% of the value of the item."},
		{db.Profile{ValuePack: true, MerchantRing: true, FamilyFame: 7000}, "You are given 88.725% of the value of the item."},
	}
	for _, tt := range tests {
		if got := taxText(tt.p); got != tt.want {
			t.Errorf("taxText(%+v) got %q, want %q", tt.p, got, tt.want)
		}
	}
}

func fieldValue(e discord.Embed, name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func TestPriceEmbed(t *testing.T) {
	t.Parallel()

	res := lookup.Result{
		Item: market.ItemRecord{
			ItemID:           705509,
			Name:             "Kzarka Longsword",
			MainCategory:     1,
			EnhancementLevel: 16,
			BasePrice:        1_000_000_000,
			Count:            3,
			TotalTradeCount:  123456,
			LastUpdateTime:   1_700_000_000,
		},
		Cached: true,
	}

	e := priceEmbed(res, market.RegionEU, nil)
	if e.Title != "PRI (I): Kzarka Longsword" {
		t.Errorf("title got %q", e.Title)
	}
	if v, _ := fieldValue(e, "Price"); v != "1,000,000,000 silver" {
		t.Errorf("price got %q", v)
	}
	if v, _ := fieldValue(e, "Total trades"); v != "123,456" {
		t.Errorf("trades got %q", v)
	}
	if _, ok := fieldValue(e, "After tax"); ok {
		t.Error("after tax shown without a profile")
	}
	if e.Footer == nil || e.Footer.Text != "cached" {
		t.Errorf("footer got %+v", e.Footer)
	}

	res.Cached = false
	e = priceEmbed(res, market.RegionEU, &db.Profile{ValuePack: true})
	if v, _ := fieldValue(e, "After tax"); v != "845,000,000 silver" {
		t.Errorf("after tax got %q", v)
	}
	if e.Footer == nil || e.Footer.Text != "refreshed" {
		t.Errorf("footer got %+v", e.Footer)
	}
}

func TestLookupErrorMessage(t *testing.T) {
	t.Parallel()

	notFound := fmt.Errorf("%w: 5 in eu", lookup.ErrItemNotFound)
	down := fmt.Errorf("%w: %w", lookup.ErrUpstreamUnavailable, &market.FetchError{Kind: market.KindNetwork, Err: errors.New("timeout")})

	if got := lookupErrorMessage(notFound, 5, market.RegionEU); !strings.Contains(got, "not listed on the Europe market") {
		t.Errorf("not found got %q", got)
	}
	if got := lookupErrorMessage(down, 5, market.RegionKR); !strings.Contains(got, "Korea market is unavailable") {
		t.Errorf("unavailable got %q", got)
	}
	if got := lookupErrorMessage(errors.New("boom"), 5, market.RegionEU); !strings.Contains(got, "failed to look up") {
		t.Errorf("other got %q", got)
	}
}

func TestResolveItem(t *testing.T) {
	t.Parallel()

	h := New(Deps{Items: testCatalog()})

	tests := []struct {
		value  string
		wantID int64
		wantOK bool
	}{
		{"16002", 16002, true},
		{" 16001 ", 16001, true},
		{"44195", 44195, true}, // IDs outside the catalog are still looked up
		{"ogre", 12031, true},
		{"black stone armor", 16002, true},
		{"-3", 0, false},
		{"zzzz", 0, false},
	}
	for _, tt := range tests {
		it, ok := h.resolveItem(tt.value)
		if ok != tt.wantOK || it.ID != tt.wantID {
			t.Errorf("resolveItem(%q) got (%d, %v), want (%d, %v)", tt.value, it.ID, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestItemChoices(t *testing.T) {
	t.Parallel()

	h := New(Deps{Items: testCatalog()})
	choices := h.itemChoices("black")
	if len(choices) != 2 {
		t.Fatalf("got %d choices, want 2", len(choices))
	}
	first, ok := choices[0].(discord.AutocompleteChoiceString)
	if !ok || first.Value != "16002" {
		t.Errorf("first choice got %+v", choices[0])
	}
	if got := h.itemChoices(""); len(got) != 0 {
		t.Errorf("blank query got %d choices", len(got))
	}
}

func TestGetIDMessage(t *testing.T) {
	t.Parallel()

	h := New(Deps{Items: testCatalog()})
	msg := h.getIDMessage("ring")
	if len(msg.Embeds) != 1 || len(msg.Embeds[0].Fields) != 1 {
		t.Fatalf("got %+v", msg)
	}
	if f := msg.Embeds[0].Fields[0]; f.Name != "Ogre Ring" || f.Value != "Item ID: 12031" {
		t.Errorf("field got %+v", f)
	}

	msg = h.getIDMessage("nothing like this")
	if msg.Content != `No matches found for: "nothing like this"` {
		t.Errorf("content got %q", msg.Content)
	}
}
