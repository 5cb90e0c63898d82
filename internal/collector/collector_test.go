package collector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LadderSentinel/internal/model"
)

func TestParseCSV(t *testing.T) {
	in := "time,open,high,low,close,volume\n" +
		"2024-01-01T00:00:00Z,100,101,99,100.5,10\n" +
		"2024-01-01 04:00:00,100.5,102,100,101.5\n" +
		"1704081600,101.5,103,101,102,5\n"
	bars, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 10.0, bars[0].Volume)
	assert.Equal(t, 0.0, bars[1].Volume)
	assert.Equal(t, int64(1704081600), bars[2].Time.Unix())
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseCSV(strings.NewReader("2024-01-01,1,2,3\n"))
	assert.ErrorContains(t, err, "at least 5 columns")

	_, err = ParseCSV(strings.NewReader("yesterday,1,2,0.5,1.5\n"))
	assert.ErrorContains(t, err, "unrecognised time")
}

func TestCSVSource_Bars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte("2024-01-01,1,2,0.5,1.5\n"), 0o644))

	src := NewCSVSource(path)
	bars, err := src.Bars()
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Equal(t, "csv:"+path, src.Name())

	_, err = NewCSVSource(filepath.Join(t.TempDir(), "missing.csv")).Bars()
	assert.Error(t, err)
}

func TestCollect_MockSource(t *testing.T) {
	col := NewCollector(&MockSource{Price: 100})
	ind, err := col.Collect()
	require.NoError(t, err)

	assert.Greater(t, ind.Price, 0.0)
	assert.Greater(t, ind.ATR, 0.0)
	assert.GreaterOrEqual(t, ind.RSI, 0.0)
	assert.LessOrEqual(t, ind.RSI, 100.0)
	assert.Greater(t, ind.ZoneUpper, ind.ZoneLower)
	assert.Contains(t, []model.MACDState{model.MACDBullish, model.MACDBearish, model.MACDNeutral}, ind.MACD)
}

func TestCollect_ShortSeriesKeepsPrice(t *testing.T) {
	col := NewCollector(&MockSource{Price: 50, Count: 5})
	ind, err := col.Collect()
	require.NoError(t, err)
	assert.Equal(t, 0.0, ind.ATR)
	assert.Equal(t, 0.0, ind.ADX)
	assert.Equal(t, model.MACDNeutral, ind.MACD)
	assert.Greater(t, ind.Price, 0.0)
}

func TestIndicatorsApply_DerivedOverBase(t *testing.T) {
	ind := &model.Indicators{Price: 100, ATR: 4, MACD: model.MACDBullish, RSITrigger: model.RSINone, ZoneUpper: 102, ZoneLower: 96}
	ctx := model.TradeContext{Side: model.Long, ADX: 12, MACD: model.MACDNeutral, SLBufferMult: 1.5}
	ind.Apply(&ctx)

	assert.Equal(t, 100.0, ctx.MarketPrice)
	assert.Equal(t, 4.0, ctx.ATR)
	assert.Equal(t, 12.0, ctx.ADX, "ADX was not derived")
	assert.Equal(t, model.MACDBullish, ctx.MACD)
	assert.Equal(t, model.RSINone, ctx.RSITrigger)
	assert.Equal(t, 102.0, ctx.ZoneUpper)
	assert.Equal(t, 96.0, ctx.ZoneLower)
	assert.Equal(t, 1.5, ctx.SLBufferMult)
}

func TestIndicatorsApply_PartialZoneSkipped(t *testing.T) {
	ind := &model.Indicators{ZoneUpper: 102}
	ctx := model.TradeContext{ZoneUpper: 110, ZoneLower: 90}
	ind.Apply(&ctx)

	assert.Equal(t, 110.0, ctx.ZoneUpper)
	assert.Equal(t, 90.0, ctx.ZoneLower)
}
