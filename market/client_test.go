package market_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/d697/bdobot/market"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *market.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return market.NewClient(market.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestClient_FetchItemDetails_decodesBatchInOrder(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]int64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"resultCode":0,"resultMsg":"","detailList":[
			{"pricePerOne":1500,"totalTradeCount":20,"keyType":0,"mainKey":5,"subKey":0,"count":3,"name":"Ring","grade":2,"mainCategory":20,"subCategory":2},
			{"pricePerOne":9000,"totalTradeCount":4,"keyType":0,"mainKey":6,"subKey":1,"count":0,"name":"PRI Ring","grade":2,"mainCategory":20,"subCategory":2}
		]}`))
	})

	got, err := c.FetchItemDetails(context.Background(), 5, market.RegionEU)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/Trademarket/GetWorldMarketSubList" {
		t.Errorf("path got %q", gotPath)
	}
	if gotBody["mainKey"] != 5 || gotBody["keyType"] != 0 {
		t.Errorf("request body got %v", gotBody)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].ItemID != 5 || got[0].BasePrice != 1500 || got[0].Count != 3 || got[0].Name != "Ring" {
		t.Errorf("first record got %+v", got[0])
	}
	if got[1].ItemID != 6 || got[1].EnhancementLevel != 1 || got[1].Region != market.RegionEU {
		t.Errorf("second record got %+v", got[1])
	}
}

func TestClient_FetchItemDetails_enhancementLevelsShareMainKey(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultCode":0,"resultMsg":"","detailList":[
			{"pricePerOne":250000000,"totalTradeCount":900,"keyType":0,"mainKey":705509,"subKey":0,"count":12,"name":"Kzarka Longsword","grade":4,"mainCategory":1,"subCategory":1},
			{"pricePerOne":600000000,"totalTradeCount":300,"keyType":0,"mainKey":705509,"subKey":16,"count":2,"name":"Kzarka Longsword","grade":4,"mainCategory":1,"subCategory":1},
			{"pricePerOne":1400000000,"totalTradeCount":80,"keyType":0,"mainKey":705509,"subKey":17,"count":0,"name":"Kzarka Longsword","grade":4,"mainCategory":1,"subCategory":1}
		]}`))
	})

	got, err := c.FetchItemDetails(context.Background(), 705509, market.RegionEU)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	for i, wantLevel := range []int64{0, 16, 17} {
		if got[i].ItemID != 705509 || got[i].EnhancementLevel != wantLevel {
			t.Errorf("record %d got id %d level %d, want 705509 level %d", i, got[i].ItemID, got[i].EnhancementLevel, wantLevel)
		}
	}
	// the base level comes first, so it is the copy a lookup by ID keeps
	if got[0].BasePrice != 250000000 {
		t.Errorf("first record got %+v", got[0])
	}
}

func TestClient_FetchItemDetails_errorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantKind market.ErrorKind
	}{
		{"server error", http.StatusInternalServerError, `oops`, market.KindUpstream},
		{"result code", http.StatusOK, `{"resultCode":8,"resultMsg":"maintenance"}`, market.KindUpstream},
		{"malformed", http.StatusOK, `{not json`, market.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.FetchItemDetails(context.Background(), 1, market.RegionNA)
			var fe *market.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FetchError, got %v", err)
			}
			if fe.Kind != tt.wantKind {
				t.Errorf("kind got %s, want %s", fe.Kind, tt.wantKind)
			}
		})
	}
}

func TestClient_FetchItemDetails_networkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := market.NewClient(market.Options{BaseURL: url, Timeout: time.Second})
	_, err := c.FetchItemDetails(context.Background(), 1, market.RegionEU)
	var fe *market.FetchError
	if !errors.As(err, &fe) || fe.Kind != market.KindNetwork {
		t.Fatalf("expected network FetchError, got %v", err)
	}
}

func TestClient_FetchItemDetails_rejectsUnknownRegion(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := c.FetchItemDetails(context.Background(), 1, market.Region(42)); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_WaitList(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Trademarket/GetWorldMarketWaitList" {
			t.Errorf("path got %q", r.URL.Path)
		}
		w.Write([]byte(`{"resultCode":0,"resultMsg":"719899-3-1200000000-1700000000|11653-16-95000000-1700000100|"}`))
	})

	got, err := c.WaitList(context.Background(), market.RegionEU)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[0].ItemID != 719899 || got[0].EnhancementLevel != 3 || got[0].Price != 1200000000 || got[0].LiveAt.Unix() != 1700000000 {
		t.Errorf("first item got %+v", got[0])
	}
}

func TestParseWaitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     string
		want    int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"separators only", "|", 0, false},
		{"one", "1-0-100-1700000000", 1, false},
		{"trailing separator", "1-0-100-1700000000|2-1-200-1700000001|", 2, false},
		{"too few fields", "1-0-100", 0, true},
		{"not a number", "1-x-100-1700000000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := market.ParseWaitList(tt.msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err got %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("got %d items, want %d", len(got), tt.want)
			}
		})
	}
}
