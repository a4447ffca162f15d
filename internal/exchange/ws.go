package exchange

import (
	"context"
	"strconv"
	"time"

	"alpha_bot/pkg/logger"

	"github.com/bytedance/sonic"
)

type PriceTick struct {
	Symbol string
	Price  float64
}

const mexcWSURL = "wss://wbs.mexc.com/ws"

// StreamPrices — один WebSocket на пачку символов, поток miniTicker-цен.
// Реконнект с небольшой паузой, keepalive-ping каждые 20s — иначе MEXC рвёт
// соединение.
func (c *MexcClient) StreamPrices(ctx context.Context, symbols []string) <-chan PriceTick {
	ch := make(chan PriceTick)
	go func() {
		defer close(ch)

		if len(symbols) == 0 {
			return
		}

		params := make([]string, 0, len(symbols))
		for _, s := range symbols {
			params = append(params, "spot@public.miniTicker.v3.api@"+s+"@UTC+0")
		}

		for {
			if ctx.Err() != nil {
				return
			}

			logger.Info("[WS] connect miniTicker, %d symbols", len(symbols))
			conn, _, err := c.wsDialer.DialContext(ctx, mexcWSURL, nil)
			if err != nil {
				logger.Error("[WS] dial error: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}

			sub := map[string]any{
				"method": "SUBSCRIPTION",
				"params": params,
			}
			if err := conn.WriteJSON(sub); err != nil {
				logger.Error("[WS] subscribe error: %v", err)
				_ = conn.Close()
				continue
			}

			stopPing := make(chan struct{})
			go func() {
				defer close(stopPing)
				t := time.NewTicker(20 * time.Second)
				defer t.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-stopPing:
						return
					case <-t.C:
						_ = conn.WriteJSON(map[string]string{"method": "PING"})
					}
				}
			}()

			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					logger.Error("[WS] read error: %v", err)
					_ = conn.Close()
					break
				}

				var frame struct {
					Channel string `json:"c"`
					Data    struct {
						Symbol string `json:"s"`
						Price  string `json:"p"`
					} `json:"d"`
				}
				if err := sonic.Unmarshal(msg, &frame); err != nil {
					continue
				}
				if frame.Data.Symbol == "" {
					continue
				}
				price, err := strconv.ParseFloat(frame.Data.Price, 64)
				if err != nil || price <= 0 {
					continue
				}

				select {
				case <-ctx.Done():
					_ = conn.Close()
					return
				case ch <- PriceTick{Symbol: frame.Data.Symbol, Price: price}:
				}
			}
		}
	}()
	return ch
}
