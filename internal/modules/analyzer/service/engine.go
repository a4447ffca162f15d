package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alpha_bot/internal/models"

	"github.com/bytedance/sonic"
)

// EngineResult — сырой ответ скорингового движка по одному снапшоту.
// Движку не доверяем: указатели, чтобы отличать отсутствие поля от нуля.
type EngineResult struct {
	Direction        string   `json:"direction"`
	Confidence       *float64 `json:"confidence"`
	RiskReward       *float64 `json:"risk_reward"`
	EntryMin         float64  `json:"entry_min"`
	EntryMax         float64  `json:"entry_max"`
	StopLoss         float64  `json:"stop_loss"`
	TakeProfit       float64  `json:"take_profit"`
	Rationale        string   `json:"reasoning"`
	HistoricalAnalog string   `json:"historical_analog"`
	Error            string   `json:"error"`
}

type Engine interface {
	Score(ctx context.Context, snap models.Snapshot) (*EngineResult, error)
}

const systemPrompt = `You are a probabilistic crypto analyst. For the given token market snapshot
return a single trading signal as strict JSON with fields: direction ("BUY" or "SELL"),
confidence (0..1), risk_reward, entry_min, entry_max, stop_loss, take_profit,
reasoning, historical_analog. Prefer dip entries, never suggest buying at local highs.
If the snapshot does not justify a signal, return {"error": "<why>"}.`

// DeepSeekEngine — клиент DeepSeek-совместимого chat completions API.
type DeepSeekEngine struct {
	http    *http.Client
	apiKey  string
	apiBase string
	model   string
}

func NewDeepSeekEngine(apiBase, apiKey, model string, timeout time.Duration) *DeepSeekEngine {
	return &DeepSeekEngine{
		http:    &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		apiBase: strings.TrimRight(apiBase, "/"),
		model:   model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (e *DeepSeekEngine) Score(ctx context.Context, snap models.Snapshot) (*EngineResult, error) {
	snapJSON, err := sonic.Marshal(map[string]any{
		"symbol":         snap.Symbol,
		"name":           snap.Name,
		"price_usd":      snap.PriceUSD,
		"market_cap_usd": snap.MarketCapUSD,
		"liquidity_usd":  snap.LiquidityUSD,
		"volume_24h_usd": snap.Volume24hUSD,
		"observed_at":    snap.ObservedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "=== MARKET SNAPSHOT ===\n" + string(snapJSON)},
		},
		Temperature: 0.3,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := sonic.Marshal(&reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.apiBase+"/chat/completions", strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("engine http %d: %s", resp.StatusCode, string(rb))
	}

	var chat chatResponse
	if err := sonic.Unmarshal(rb, &chat); err != nil {
		return nil, fmt.Errorf("engine decode: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("engine: empty choices")
	}

	var result EngineResult
	if err := sonic.Unmarshal([]byte(chat.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("engine content decode: %w", err)
	}
	return &result, nil
}
