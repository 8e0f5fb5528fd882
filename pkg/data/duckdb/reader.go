package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/utility/fixed"
)

// Reader loads archived contracts from a DuckDB file. Decimal columns are read as text
// so that fixed.Point keeps their exact value.
type Reader struct {
	dataSourceName string
	db             *sql.DB
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect() error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open duckdb %q: %w", r.dataSourceName, err)
	}
	r.db = db
	return nil
}

func (r *Reader) Close() {
	if r.db != nil {
		_ = r.db.Close()
	}
}

// LoadContracts calls handler for every contract sold within [from, to], oldest first.
func (r *Reader) LoadContracts(ctx context.Context, from, to time.Time, handler func(info common.ContractInfo) error) error {
	query := `
	SELECT
		contract_id,
		contract_type,
		symbol,
		barrier,
		currency,
		CAST(entry_tick AS VARCHAR),
		CAST(exit_tick AS VARCHAR),
		CAST(profit AS VARCHAR),
		status,
		sell_time
	FROM contracts
	WHERE sell_time BETWEEN ? AND ?
	ORDER BY sell_time, contract_id`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return fmt.Errorf("unable to query contracts: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		var (
			info                        common.ContractInfo
			symbol, barrier, currency   sql.NullString
			status                      sql.NullString
			entryTick, exitTick, profit *fixed.Point
			sellTime                    sql.NullTime
		)
		err := rows.Scan(&info.ContractID, &info.ContractType, &symbol, &barrier, &currency,
			&entryTick, &exitTick, &profit, &status, &sellTime)
		if err != nil {
			return fmt.Errorf("unable to scan contract row: %w", err)
		}

		info.Symbol = symbol.String
		info.Barrier = common.Text(barrier.String)
		info.Currency = currency.String
		info.EntryTick = entryTick
		info.ExitTick = exitTick
		info.Profit = profit
		info.Status = common.ContractStatus(status.String)
		if sellTime.Valid {
			info.SellTime = sellTime.Time.Unix()
			info.IsSold = true
		}
		info.Source = "data.duckdb"

		if err := handler(info); err != nil {
			return fmt.Errorf("unable to process contract %d: %w", info.ContractID, err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("unable to iterate contract rows: %w", err)
	}

	return nil
}
