package psql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/contract"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertContract(ctx context.Context, info common.ContractInfo) error {
	query := `
	INSERT INTO dbot_contracts (
		contract_id,
		contract_type,
		symbol,
		currency,
		entry_tick,
		exit_tick,
		buy_price,
		profit,
		status,
		description,
		sell_time
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (contract_id) DO UPDATE SET
		exit_tick = EXCLUDED.exit_tick,
		profit = EXCLUDED.profit,
		status = EXCLUDED.status,
		description = EXCLUDED.description,
		sell_time = EXCLUDED.sell_time;
	`

	var sellTime sql.NullTime
	if info.SellTime != 0 {
		sellTime = sql.NullTime{Time: time.Unix(info.SellTime, 0).UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		info.ContractID,
		info.ContractType,
		info.Symbol,
		info.Currency,
		info.EntryTick,
		info.ExitTick,
		info.BuyPrice,
		info.Profit,
		string(info.Status),
		contract.Describe(info),
		sellTime,
	)
	if err != nil {
		return fmt.Errorf("unable to insert contract %d: %w", info.ContractID, err)
	}
	return nil
}

func (s *Store) InsertApplication(ctx context.Context, app common.ApplicationSubmitted) error {
	query := `
	INSERT INTO dbot_applications (
		backend_id,
		request_id,
		email,
		country,
		submitted_at
	) VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (backend_id) DO NOTHING;
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		app.BackendID,
		app.RequestID,
		app.Application.Email,
		app.Application.Country,
		app.TimeStamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("unable to insert application %s: %w", app.BackendID, err)
	}
	return nil
}
