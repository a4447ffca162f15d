package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// MexcClient — spot-клиент MEXC для авто-трейдинга: маркет-ордера и поток цен.
type MexcClient struct {
	http      *http.Client
	wsDialer  *websocket.Dialer
	baseURL   string
	apiKey    string
	apiSecret string
}

func NewMexc(baseURL, apiKey, apiSecret string) *MexcClient {
	return &MexcClient{
		http:      &http.Client{Timeout: 15 * time.Second},
		wsDialer:  websocket.DefaultDialer,
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

type MexcOrder struct {
	Symbol              string `json:"symbol"`
	OrderID             int64  `json:"orderId"`
	ExecutedQty         string `json:"executedQty"`
	CummulativeQuoteQty string `json:"cummulativeQuoteQty"`
	Price               string `json:"price"`
}

// FillPrice — средняя цена исполнения; 0, если ордер ничего не исполнил.
func (o *MexcOrder) FillPrice() float64 {
	price, _ := strconv.ParseFloat(o.Price, 64)
	if price > 0 {
		return price
	}
	qty, _ := strconv.ParseFloat(o.ExecutedQty, 64)
	quote, _ := strconv.ParseFloat(o.CummulativeQuoteQty, 64)
	if qty > 0 && quote > 0 {
		return quote / qty
	}
	return 0
}

func (o *MexcOrder) Qty() float64 {
	qty, _ := strconv.ParseFloat(o.ExecutedQty, 64)
	return qty
}

// PlaceMarketBuy — маркет-покупка на quoteUSDT долларов.
func (c *MexcClient) PlaceMarketBuy(ctx context.Context, symbol string, quoteUSDT float64) (*MexcOrder, error) {
	params := url.Values{
		"symbol":        {symbol},
		"side":          {"BUY"},
		"type":          {"MARKET"},
		"quoteOrderQty": {strconv.FormatFloat(quoteUSDT, 'f', -1, 64)},
	}
	return c.placeOrder(ctx, params)
}

// PlaceMarketSell — маркет-продажа qty базового актива.
func (c *MexcClient) PlaceMarketSell(ctx context.Context, symbol string, qty float64) (*MexcOrder, error) {
	params := url.Values{
		"symbol":   {symbol},
		"side":     {"SELL"},
		"type":     {"MARKET"},
		"quantity": {strconv.FormatFloat(qty, 'f', -1, 64)},
	}
	return c.placeOrder(ctx, params)
}

func (c *MexcClient) placeOrder(ctx context.Context, params url.Values) (*MexcOrder, error) {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query := params.Encode()
	query += "&signature=" + c.sign(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v3/order?"+query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MEXC-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("mexc http %d: %s", resp.StatusCode, string(rb))
	}

	var order MexcOrder
	if err := sonic.Unmarshal(rb, &order); err != nil {
		return nil, fmt.Errorf("mexc decode order: %w", err)
	}
	return &order, nil
}

func (c *MexcClient) sign(query string) string {
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}
