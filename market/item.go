package market

import "time"

// ItemRecord is one region's market snapshot for one item.
type ItemRecord struct {
	ItemID           int64  `json:"item_id"`
	Region           Region `json:"region"`
	Name             string `json:"name"`
	Grade            int64  `json:"grade"`
	MainCategory     int64  `json:"main_category"`
	SubCategory      int64  `json:"sub_category"`
	KeyType          int64  `json:"key_type"`
	SubKey           int64  `json:"sub_key"`
	EnhancementLevel int64  `json:"enhancement_level"`
	BasePrice        int64  `json:"base_price"`
	Count            int64  `json:"count"`
	TotalTradeCount  int64  `json:"total_trade_count"`

	// LastUpdateTime is the Unix time in seconds the record was written to the cache.
	LastUpdateTime int64 `json:"last_update_time"`
}

// WaitListItem is an item waiting in a region's registration queue.
type WaitListItem struct {
	ItemID           int64
	EnhancementLevel int64
	Price            int64
	LiveAt           time.Time
}
