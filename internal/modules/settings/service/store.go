package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"alpha_bot/internal/models"
	"alpha_bot/internal/modules/settings/service/pg/usersettings"
	"alpha_bot/pkg/db"
	"alpha_bot/pkg/logger"

	"github.com/jackc/pgx/v5"
)

// Store — активная конфигурация пайплайна. Читатели берут Snapshot() —
// атомарный указатель на иммутабельное значение, полуобновлённую
// конфигурацию увидеть нельзя. Пишет только Replace: валидация, запись в
// базу, затем свап указателя.
type Store struct {
	db   *db.PgTxManager
	repo *usersettings.UserSettings

	current atomic.Pointer[models.Settings]
}

func NewStore(manager *db.PgTxManager) *Store {
	s := &Store{
		db:   manager,
		repo: usersettings.New(),
	}
	s.current.Store(models.DefaultSettings())
	return s
}

// Load подтягивает настройки из базы на старте; при пустой базе остаются
// дефолты.
func (s *Store) Load(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("SettingsStore.Load: %w", err)
		}
	}()
	var loaded *models.Settings
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		loaded, err = s.repo.Get(ctxTx, tx)
		return err
	})
	if err != nil {
		return err
	}
	if loaded == nil {
		logger.Info("settings: no row in db, using defaults")
		return nil
	}
	if err := Validate(loaded); err != nil {
		return err
	}
	s.current.Store(loaded)
	return nil
}

// Snapshot — текущая конфигурация. Значение иммутабельно, держать можно
// сколько угодно (стадии держат его весь тик).
func (s *Store) Snapshot() *models.Settings {
	return s.current.Load()
}

// Replace атомарно заменяет конфигурацию целиком. Частичных апдейтов нет.
func (s *Store) Replace(ctx context.Context, next *models.Settings) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("SettingsStore.Replace: %w", err)
		}
	}()
	if err := Validate(next); err != nil {
		return err
	}
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		return s.repo.Upsert(ctxTx, tx, next)
	})
	if err != nil {
		return err
	}
	s.current.Store(next)
	logger.Info("settings: replaced (interval=%dm, max_signals=%d, auto_trading=%v)",
		next.Analysis.CollectionIntervalMinutes,
		next.Analysis.MaxSignalsPerDay,
		next.Trading.EnableAutoTrading,
	)
	return nil
}

func Validate(s *models.Settings) error {
	if s == nil {
		return fmt.Errorf("settings: nil")
	}
	a := s.Analysis
	if a.CollectionIntervalMinutes <= 0 {
		return fmt.Errorf("settings: collection_interval_minutes must be positive")
	}
	if a.MinSignalConfidence < 0 || a.MinSignalConfidence > 1 {
		return fmt.Errorf("settings: min_signal_confidence must be in [0,1]")
	}
	if a.MaxSignalsPerDay < 0 {
		return fmt.Errorf("settings: max_signals_per_day must be >= 0")
	}
	if a.MinRiskReward < 0 {
		return fmt.Errorf("settings: min_risk_reward must be >= 0")
	}
	d := s.DataCollection
	if d.MinMarketCapUSD < 0 || d.MinTokenPriceUSD < 0 || d.MinLiquidityUSD < 0 {
		return fmt.Errorf("settings: data_collection thresholds must be >= 0")
	}
	if d.StablecoinMinPrice > d.StablecoinMaxPrice {
		return fmt.Errorf("settings: stablecoin price band is inverted")
	}
	t := s.Trading
	if t.EnableAutoTrading && t.TradeAmountUSDT <= 0 {
		return fmt.Errorf("settings: trade_amount_usdt must be positive when auto trading enabled")
	}
	if t.MinTakeProfitPercent < 0 {
		return fmt.Errorf("settings: min_take_profit_percent must be >= 0")
	}
	return nil
}
