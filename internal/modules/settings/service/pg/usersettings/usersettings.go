package usersettings

import (
	"context"
	"fmt"

	"alpha_bot/internal/models"
	"alpha_bot/internal/modules/settings/service/pg/usersettings/sql"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

// UserSettings implement db store
type UserSettings struct {
	sql *sql.Queries
}

// New instance
func New() *UserSettings {
	return &UserSettings{
		sql: sql.New(),
	}
}

// Get возвращает (nil, nil), если настроек в базе ещё нет.
func (u *UserSettings) Get(ctx context.Context, tx pgx.Tx) (settings *models.Settings, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("UserSettings.Get: %w", err)
		}
	}()
	data, err := u.sql.Get(ctx, tx)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var t models.Settings
	err = sonic.Unmarshal(data, &t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (u *UserSettings) Upsert(ctx context.Context, tx pgx.Tx, settings *models.Settings) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("UserSettings.Upsert: %w", err)
		}
	}()
	var data []byte
	data, err = sonic.Marshal(settings)
	if err != nil {
		return err
	}
	return u.sql.Upsert(ctx, tx, data)
}
