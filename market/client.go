package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	subListPath  = "/Trademarket/GetWorldMarketSubList"
	waitListPath = "/Trademarket/GetWorldMarketWaitList"

	defaultTimeout = 30 * time.Second
)

// Options configures a Client. The zero value talks to the official regional endpoints
// without rate limiting.
type Options struct {
	// BaseURL replaces every regional endpoint when set. Used for proxies and tests.
	BaseURL string
	Timeout time.Duration
	// Rate is the maximum number of requests per second. Zero disables limiting.
	Rate  float64
	Burst int
}

// Client talks to the Black Desert trade market API.
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
	baseURL string
}

// NewClient creates a market API client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("User-Agent", "BlackDesert")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}

	return &Client{
		client:  client,
		limiter: limiter,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

type subListRequest struct {
	KeyType int64 `json:"keyType"`
	MainKey int64 `json:"mainKey"`
}

type subListResponse struct {
	ResultCode int             `json:"resultCode"`
	ResultMsg  string          `json:"resultMsg"`
	DetailList []subListDetail `json:"detailList"`
}

type subListDetail struct {
	PricePerOne     int64  `json:"pricePerOne"`
	TotalTradeCount int64  `json:"totalTradeCount"`
	KeyType         int64  `json:"keyType"`
	MainKey         int64  `json:"mainKey"`
	SubKey          int64  `json:"subKey"`
	Count           int64  `json:"count"`
	Name            string `json:"name"`
	Grade           int64  `json:"grade"`
	MainCategory    int64  `json:"mainCategory"`
	SubCategory     int64  `json:"subCategory"`
}

type waitListResponse struct {
	ResultCode int    `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
}

func (c *Client) endpoint(region Region, path string) string {
	if c.baseURL != "" {
		return c.baseURL + path
	}
	return region.baseURL() + path
}

// post sends body to path and decodes a successful response into out.
func (c *Client) post(ctx context.Context, op string, region Region, path string, body, out any) error {
	if !region.Valid() {
		return &FetchError{Kind: KindUpstream, Op: op, Err: fmt.Errorf("unsupported region %d", int(region))}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Kind: KindNetwork, Op: op, Err: err}
	}

	url := c.endpoint(region, path)
	slog.Debug("market request", slog.String("op", op), slog.String("url", url))

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(url)
	if err != nil {
		return &FetchError{Kind: KindNetwork, Op: op, Err: err}
	}
	if resp.IsError() {
		return &FetchError{Kind: KindUpstream, Op: op, Status: resp.StatusCode(), Err: errors.New(resp.Status())}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &FetchError{Kind: KindMalformed, Op: op, Status: resp.StatusCode(), Err: err}
	}
	return nil
}

// FetchItemDetails returns the sub-list for itemID: the item itself plus related entries
// (typically its other enhancement levels), in the order the API sent them.
func (c *Client) FetchItemDetails(ctx context.Context, itemID int64, region Region) ([]ItemRecord, error) {
	const op = "item details"

	var res subListResponse
	if err := c.post(ctx, op, region, subListPath, subListRequest{KeyType: 0, MainKey: itemID}, &res); err != nil {
		return nil, err
	}
	if res.ResultCode != 0 {
		return nil, &FetchError{Kind: KindUpstream, Op: op, Err: fmt.Errorf("result code %d: %s", res.ResultCode, res.ResultMsg)}
	}

	records := make([]ItemRecord, 0, len(res.DetailList))
	for _, d := range res.DetailList {
		records = append(records, ItemRecord{
			ItemID:       d.MainKey,
			Region:       region,
			Name:         d.Name,
			Grade:        d.Grade,
			MainCategory: d.MainCategory,
			SubCategory:  d.SubCategory,
			KeyType:      d.KeyType,
			SubKey:       d.SubKey,
			// the sub key doubles as the enhancement level on this endpoint
			EnhancementLevel: d.SubKey,
			BasePrice:        d.PricePerOne,
			Count:            d.Count,
			TotalTradeCount:  d.TotalTradeCount,
		})
	}
	return records, nil
}

// WaitList returns the registration queue for a region.
func (c *Client) WaitList(ctx context.Context, region Region) ([]WaitListItem, error) {
	const op = "wait list"

	var res waitListResponse
	if err := c.post(ctx, op, region, waitListPath, struct{}{}, &res); err != nil {
		return nil, err
	}
	if res.ResultCode != 0 {
		return nil, &FetchError{Kind: KindUpstream, Op: op, Err: fmt.Errorf("result code %d: %s", res.ResultCode, res.ResultMsg)}
	}

	items, err := ParseWaitList(res.ResultMsg)
	if err != nil {
		return nil, &FetchError{Kind: KindMalformed, Op: op, Err: err}
	}
	return items, nil
}

// ParseWaitList decodes the "id-enhancement-price-liveAt|..." format used by the wait
// list endpoint. liveAt is in Unix seconds. An empty message is an empty queue.
func ParseWaitList(msg string) ([]WaitListItem, error) {
	var items []WaitListItem
	for _, entry := range strings.Split(msg, "|") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "-")
		if len(parts) != 4 {
			return nil, fmt.Errorf("wait list entry %q: expected 4 fields, got %d", entry, len(parts))
		}
		var nums [4]int64
		for i, p := range parts {
			n, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("wait list entry %q: %w", entry, err)
			}
			nums[i] = n
		}
		items = append(items, WaitListItem{
			ItemID:           nums[0],
			EnhancementLevel: nums[1],
			Price:            nums[2],
			LiveAt:           time.Unix(nums[3], 0),
		})
	}
	return items, nil
}
