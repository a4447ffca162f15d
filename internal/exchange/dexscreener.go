package exchange

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"context"

	"github.com/bytedance/sonic"
)

// DexScreenerClient — REST-клиент агрегатора DexScreener. Только чтение,
// без авторизации.
type DexScreenerClient struct {
	http    *http.Client
	baseURL string
}

func NewDexScreener(baseURL string, timeout time.Duration) *DexScreenerClient {
	return &DexScreenerClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type DexToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// DexPair — сырой ответ источника по одной паре. priceUsd приходит строкой.
type DexPair struct {
	ChainID     string   `json:"chainId"`
	PairAddress string   `json:"pairAddress"`
	BaseToken   DexToken `json:"baseToken"`
	PriceUsd    string   `json:"priceUsd"`
	Liquidity   struct {
		Usd float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	MarketCap     float64  `json:"marketCap"`
	Fdv           float64  `json:"fdv"`
	Labels        []string `json:"labels"`
	PairCreatedAt int64    `json:"pairCreatedAt"` // unix millis
	UpdatedAt     int64    `json:"updatedAt"`     // unix millis, может отсутствовать
}

func (p *DexPair) Price() (float64, error) {
	return strconv.ParseFloat(p.PriceUsd, 64)
}

// EffectiveMarketCap — marketCap, при его отсутствии fdv (как делал источник
// данных для старого сборщика).
func (p *DexPair) EffectiveMarketCap() float64 {
	if p.MarketCap > 0 {
		return p.MarketCap
	}
	return p.Fdv
}

type pairsResponse struct {
	Pairs []DexPair `json:"pairs"`
}

// TokenPairs — листинг пар по сети. Ошибка здесь — ошибка всего фетча,
// классифицирует её вызывающий (коллектор).
func (c *DexScreenerClient) TokenPairs(ctx context.Context, chainID string, limit int) ([]DexPair, error) {
	u := fmt.Sprintf("%s/latest/dex/tokens?%s", c.baseURL, url.Values{
		"chainId": {chainID},
		"limit":   {strconv.Itoa(limit)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("dexscreener http %d: %s", resp.StatusCode, string(rb))
	}

	var out pairsResponse
	if err := sonic.Unmarshal(rb, &out); err != nil {
		return nil, fmt.Errorf("dexscreener decode: %w", err)
	}
	return out.Pairs, nil
}
