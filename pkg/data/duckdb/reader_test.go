package duckdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/utility/fixed"
)

func seed(t *testing.T) *Reader {
	t.Helper()

	r := NewReader("")
	require.NoError(t, r.Connect())
	t.Cleanup(r.Close)

	_, err := r.db.Exec(`
	CREATE TABLE contracts (
		contract_id   BIGINT,
		contract_type VARCHAR,
		symbol        VARCHAR,
		barrier       VARCHAR,
		currency      VARCHAR,
		entry_tick    DECIMAL(18,4),
		exit_tick     DECIMAL(18,4),
		profit        DECIMAL(18,2),
		status        VARCHAR,
		sell_time     TIMESTAMP
	)`)
	require.NoError(t, err)

	_, err = r.db.Exec(`
	INSERT INTO contracts VALUES
		(1, 'DIGITOVER', 'R_50', '3', 'USD', 1234.5600, 1234.9100, 0.95, 'won', TIMESTAMP '2024-05-01 10:00:00'),
		(2, 'CALL', 'R_100', NULL, 'USD', 10.0000, NULL, -1.00, 'lost', TIMESTAMP '2024-05-01 11:00:00'),
		(3, 'PUT', 'R_10', NULL, 'EUR', NULL, NULL, NULL, 'open', TIMESTAMP '2024-06-01 00:00:00')`)
	require.NoError(t, err)

	return r
}

func TestReader_LoadContracts(t *testing.T) {
	r := seed(t)

	var got []common.ContractInfo
	err := r.LoadContracts(context.Background(),
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		func(info common.ContractInfo) error {
			got = append(got, info)
			return nil
		})
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, int64(1), first.ContractID)
	assert.Equal(t, "DIGITOVER", first.ContractType)
	assert.Equal(t, common.Text("3"), first.Barrier)
	assert.Equal(t, common.ContractStatusWon, first.Status)
	require.NotNil(t, first.EntryTick)
	assert.True(t, first.EntryTick.Eq(fixed.MustParse("1234.56")))
	require.NotNil(t, first.Profit)
	assert.True(t, first.Profit.Eq(fixed.MustParse("0.95")))
	assert.True(t, bool(first.IsSold))

	second := got[1]
	assert.Equal(t, int64(2), second.ContractID)
	assert.Empty(t, second.Barrier)
	assert.Nil(t, second.ExitTick)
	assert.True(t, second.Profit.Eq(fixed.MustParse("-1")))
}

func TestReader_HandlerError(t *testing.T) {
	r := seed(t)
	stop := errors.New("stop")

	calls := 0
	err := r.LoadContracts(context.Background(), time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC),
		func(common.ContractInfo) error {
			calls++
			return stop
		})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
