package service

import (
	"testing"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sale(itemID uuid.UUID, name, date string, qty int, total int64) model.SaleRecord {
	return model.SaleRecord{
		ID:       uuid.New(),
		ItemID:   itemID,
		ItemName: name,
		Quantity: qty,
		Total:    total,
		Date:     date,
	}
}

func TestResolveRangePresets(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	r, err := ResolveRange("7d", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, DateRange{Start: "2026-03-08", End: "2026-03-15"}, r)

	r, err = ResolveRange("30d", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, DateRange{Start: "2026-02-13", End: "2026-03-15"}, r)

	r, err = ResolveRange("monthly", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, DateRange{Start: "2026-03-01", End: "2026-03-15"}, r)

	r, err = ResolveRange("yearly", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, DateRange{Start: "2026-01-01", End: "2026-03-15"}, r)

	// Empty preset defaults to the 7 day window
	r, err = ResolveRange("", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08", r.Start)
}

func TestResolveRangeCustom(t *testing.T) {
	now := time.Now()

	r, err := ResolveRange("custom", "2026-01-01", "2026-01-31", now)
	require.NoError(t, err)
	assert.Equal(t, 31, r.Days())

	_, err = ResolveRange("custom", "2026-01-31", "2026-01-01", now)
	assert.ErrorIs(t, err, ErrBadRange)

	_, err = ResolveRange("custom", "not-a-date", "2026-01-01", now)
	assert.ErrorIs(t, err, ErrBadRange)

	_, err = ResolveRange("quarterly", "", "", now)
	assert.ErrorIs(t, err, ErrBadRange)
}

func TestFilterByRangeIsInclusive(t *testing.T) {
	id := uuid.New()
	sales := []model.SaleRecord{
		sale(id, "a", "2026-01-01", 1, 100),
		sale(id, "a", "2026-01-15", 1, 100),
		sale(id, "a", "2026-01-31", 1, 100),
		sale(id, "a", "2026-02-01", 1, 100),
	}
	r := DateRange{Start: "2026-01-01", End: "2026-01-31"}

	filtered := FilterByRange(sales, r)
	assert.Len(t, filtered, 3)
	for _, s := range filtered {
		assert.True(t, r.Contains(s.Date))
	}
}

func TestTotalsMatchSumOfFiltered(t *testing.T) {
	id := uuid.New()
	sales := []model.SaleRecord{
		sale(id, "a", "2026-01-10", 2, 1200),
		sale(id, "a", "2026-01-11", 3, 1800),
		sale(id, "a", "2026-03-01", 5, 9999),
	}
	r := DateRange{Start: "2026-01-01", End: "2026-01-31"}

	filtered := FilterByRange(sales, r)
	totals := Totals(filtered)

	var revenue int64
	var qty int
	for _, s := range filtered {
		revenue += s.Total
		qty += s.Quantity
	}
	assert.Equal(t, revenue, totals.Revenue)
	assert.Equal(t, qty, totals.Quantity)
	assert.Equal(t, len(filtered), totals.Count)
}

func TestTopItemsOrderAndTiebreak(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	sales := []model.SaleRecord{
		sale(a, "Beer", "2026-01-01", 2, 1000),
		sale(a, "Beer", "2026-01-02", 1, 500),
		sale(b, "Wine", "2026-01-01", 1, 5000),
		sale(c, "Cola", "2026-01-01", 3, 1500),
	}

	top := TopItems(sales, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "Wine", top[0].Key)
	// Beer and Cola tie at 1500; names break the tie
	assert.Equal(t, "Beer", top[1].Key)
	assert.EqualValues(t, 1500, top[1].Revenue)
	assert.Equal(t, 3, top[1].Quantity)
}

func TestTopCategoriesResolvesThroughItems(t *testing.T) {
	beer := model.InventoryItem{ID: uuid.New(), Name: "Beer", Category: "Drinks"}
	snack := model.InventoryItem{ID: uuid.New(), Name: "Chips", Category: "Snacks"}
	items := []model.InventoryItem{beer, snack}

	sales := []model.SaleRecord{
		sale(beer.ID, "Beer", "2026-01-01", 2, 1200),
		sale(snack.ID, "Chips", "2026-01-01", 1, 500),
		// Item deleted since the sale: falls in the empty category
		sale(uuid.New(), "Ghost", "2026-01-01", 1, 100),
	}

	top := TopCategories(sales, items, 0)
	require.Len(t, top, 3)
	assert.Equal(t, "Drinks", top[0].Key)
	assert.Equal(t, "Snacks", top[1].Key)
	assert.Equal(t, "", top[2].Key)
}

func TestDailySeriesOmitsEmptyDays(t *testing.T) {
	id := uuid.New()
	sales := []model.SaleRecord{
		sale(id, "a", "2026-01-03", 1, 300),
		sale(id, "a", "2026-01-01", 1, 100),
		sale(id, "a", "2026-01-01", 1, 200),
	}

	series := DailySeries(sales)
	require.Len(t, series, 2)
	assert.Equal(t, "2026-01-01", series[0].Date)
	assert.EqualValues(t, 300, series[0].Revenue)
	assert.Equal(t, 2, series[0].Count)
	assert.Equal(t, "2026-01-03", series[1].Date)
}

func TestProfitability(t *testing.T) {
	beer := model.InventoryItem{ID: uuid.New(), Name: "Beer", PurchasePrice: 350}
	items := []model.InventoryItem{beer}

	sales := []model.SaleRecord{
		sale(beer.ID, "Beer", "2026-01-01", 10, 6000),
		// Deleted item: revenue counts, cost is unknown
		sale(uuid.New(), "Ghost", "2026-01-01", 1, 1000),
	}

	report := Profitability(sales, items)
	assert.EqualValues(t, 7000, report.TotalRevenue)
	assert.EqualValues(t, 3500, report.TotalCost)
	assert.EqualValues(t, 3500, report.TotalProfit)
	assert.InDelta(t, 0.5, report.Margin, 0.001)
	require.Len(t, report.Items, 2)
	assert.Equal(t, "Beer", report.Items[0].Name)
}

func TestProfitabilityEmpty(t *testing.T) {
	report := Profitability(nil, nil)
	assert.Zero(t, report.TotalRevenue)
	assert.Zero(t, report.Margin)
	assert.Empty(t, report.Items)
}

func TestStockDepletionRiskBuckets(t *testing.T) {
	r := DateRange{Start: "2026-01-01", End: "2026-01-10"} // 10 days

	high := model.InventoryItem{ID: uuid.New(), Name: "High", Quantity: 3}
	medium := model.InventoryItem{ID: uuid.New(), Name: "Medium", Quantity: 7}
	low := model.InventoryItem{ID: uuid.New(), Name: "Low", Quantity: 100}
	idle := model.InventoryItem{ID: uuid.New(), Name: "Idle", Quantity: 50}
	items := []model.InventoryItem{high, medium, low, idle}

	// Each sold item moves 10 units over the window: 1/day
	sales := []model.SaleRecord{
		sale(high.ID, "High", "2026-01-05", 10, 0),
		sale(medium.ID, "Medium", "2026-01-05", 10, 0),
		sale(low.ID, "Low", "2026-01-05", 10, 0),
		// Outside the window: must not count
		sale(idle.ID, "Idle", "2025-12-01", 99, 0),
	}

	forecasts := StockDepletion(sales, items, r)
	require.Len(t, forecasts, 3)

	// Sorted by days remaining
	assert.Equal(t, "High", forecasts[0].Name)
	assert.Equal(t, 3, forecasts[0].DaysRemaining)
	assert.Equal(t, RiskHigh, forecasts[0].Risk)

	assert.Equal(t, "Medium", forecasts[1].Name)
	assert.Equal(t, RiskMedium, forecasts[1].Risk)

	assert.Equal(t, "Low", forecasts[2].Name)
	assert.Equal(t, RiskLow, forecasts[2].Risk)
}

func TestDedupAdjustments(t *testing.T) {
	itemID := uuid.New()
	at := time.Date(2026, 1, 1, 10, 30, 5, 0, time.UTC)

	adjusted := func(created time.Time, from, to int) model.InventoryHistoryEntry {
		return model.InventoryHistoryEntry{
			ID:     uuid.New(),
			ItemID: itemID,
			Action: model.ActionStockAdjusted,
			Changes: map[string]model.FieldChange{
				"quantity": {From: from, To: to},
			},
			CreatedAt: created,
		}
	}

	entries := []model.InventoryHistoryEntry{
		adjusted(at, 10, 8),
		// Same item, same values, same minute: a double submit
		adjusted(at.Add(20*time.Second), 10, 8),
		// Same values in a different minute survives
		adjusted(at.Add(2*time.Minute), 10, 8),
		// Different values in the same minute survives
		adjusted(at, 8, 6),
		// Non-adjustment actions always survive
		{ID: uuid.New(), ItemID: itemID, Action: model.ActionUpdated, CreatedAt: at},
	}

	deduped := DedupAdjustments(entries)
	assert.Len(t, deduped, 4)
}
