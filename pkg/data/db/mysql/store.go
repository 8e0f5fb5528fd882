package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/contract"
)

const Schema = `
CREATE TABLE IF NOT EXISTS applications (
	backend_id     VARCHAR(64)   NOT NULL PRIMARY KEY,
	request_id     VARCHAR(64)   NOT NULL,
	first_name     VARCHAR(64)   NOT NULL,
	last_name      VARCHAR(64)   NOT NULL,
	email          VARCHAR(254)  NOT NULL,
	phone          VARCHAR(32)   NULL,
	country        CHAR(2)       NOT NULL,
	experience     VARCHAR(16)   NULL,
	message        TEXT          NULL,
	accepted_terms BOOLEAN       NOT NULL,
	submitted_at   DATETIME(3)   NOT NULL
);

CREATE TABLE IF NOT EXISTS contracts (
	contract_id   BIGINT        NOT NULL PRIMARY KEY,
	contract_type VARCHAR(32)   NOT NULL,
	symbol        VARCHAR(64)   NULL,
	underlying    VARCHAR(32)   NULL,
	barrier       VARCHAR(32)   NULL,
	currency      VARCHAR(10)   NULL,
	entry_tick    DECIMAL(20,8) NULL,
	exit_tick     DECIMAL(20,8) NULL,
	buy_price     DECIMAL(20,2) NULL,
	payout        DECIMAL(20,2) NULL,
	profit        DECIMAL(20,2) NULL,
	status        VARCHAR(16)   NULL,
	description   VARCHAR(255)  NOT NULL,
	date_start    DATETIME      NULL,
	sell_time     DATETIME      NULL
);
`

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertApplication(ctx context.Context, app common.ApplicationSubmitted) error {
	query := `
	INSERT INTO applications (
		backend_id,
		request_id,
		first_name,
		last_name,
		email,
		phone,
		country,
		experience,
		message,
		accepted_terms,
		submitted_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE request_id = VALUES(request_id);
	`

	a := app.Application
	_, err := s.db.ExecContext(
		ctx,
		query,
		app.BackendID,
		app.RequestID,
		a.FirstName,
		a.LastName,
		a.Email,
		nullString(a.Phone),
		a.Country,
		nullString(string(a.Experience)),
		nullString(a.Message),
		a.AcceptedTerms,
		app.TimeStamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("unable to insert application %s: %w", app.BackendID, err)
	}
	return nil
}

func (s *Store) InsertContract(ctx context.Context, info common.ContractInfo) error {
	query := `
	INSERT INTO contracts (
		contract_id,
		contract_type,
		symbol,
		underlying,
		barrier,
		currency,
		entry_tick,
		exit_tick,
		buy_price,
		payout,
		profit,
		status,
		description,
		date_start,
		sell_time
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		exit_tick = VALUES(exit_tick),
		profit = VALUES(profit),
		status = VALUES(status),
		description = VALUES(description),
		sell_time = VALUES(sell_time);
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		info.ContractID,
		info.ContractType,
		nullString(info.Symbol),
		nullString(info.Underlying),
		nullString(string(info.Barrier)),
		nullString(info.Currency),
		info.EntryTick,
		info.ExitTick,
		info.BuyPrice,
		info.Payout,
		info.Profit,
		nullString(string(info.Status)),
		contract.Describe(info),
		nullTime(info.DateStart),
		nullTime(info.SellTime),
	)
	if err != nil {
		return fmt.Errorf("unable to insert contract %d: %w", info.ContractID, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(unix int64) sql.NullTime {
	if unix == 0 {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: time.Unix(unix, 0).UTC(), Valid: true}
}
