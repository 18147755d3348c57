package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"

	"github.com/google/uuid"
)

var ErrBadRange = errors.New("invalid date range")

// DateRange is an inclusive [Start, End] day interval in YYYY-MM-DD.
// Sale dates are compared lexicographically, which matches chronological
// order for this layout.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// Days returns the number of days covered, inclusive.
func (r DateRange) Days() int {
	start, err := time.Parse(model.DateLayout, r.Start)
	if err != nil {
		return 0
	}
	end, err := time.Parse(model.DateLayout, r.End)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// ResolveRange maps a named preset to a concrete interval. Day presets
// mean "today minus N days"; monthly and yearly snap to the calendar
// month and year to date. Custom ranges pass explicit start/end.
func ResolveRange(preset, start, end string, now time.Time) (DateRange, error) {
	today := now.Format(model.DateLayout)
	switch preset {
	case "7d", "":
		return DateRange{Start: now.AddDate(0, 0, -7).Format(model.DateLayout), End: today}, nil
	case "30d":
		return DateRange{Start: now.AddDate(0, 0, -30).Format(model.DateLayout), End: today}, nil
	case "monthly":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: first.Format(model.DateLayout), End: today}, nil
	case "yearly":
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: first.Format(model.DateLayout), End: today}, nil
	case "custom":
		if _, err := time.Parse(model.DateLayout, start); err != nil {
			return DateRange{}, fmt.Errorf("%w: bad start %q", ErrBadRange, start)
		}
		if _, err := time.Parse(model.DateLayout, end); err != nil {
			return DateRange{}, fmt.Errorf("%w: bad end %q", ErrBadRange, end)
		}
		if start > end {
			return DateRange{}, fmt.Errorf("%w: start after end", ErrBadRange)
		}
		return DateRange{Start: start, End: end}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: unknown preset %q", ErrBadRange, preset)
	}
}

// FilterByRange returns exactly the sales whose date falls in r.
func FilterByRange(sales []model.SaleRecord, r DateRange) []model.SaleRecord {
	filtered := []model.SaleRecord{}
	for _, sale := range sales {
		if r.Contains(sale.Date) {
			filtered = append(filtered, sale)
		}
	}
	return filtered
}

// SalesTotals are the headline numbers for a filtered set of sales.
type SalesTotals struct {
	Revenue  int64 `json:"revenue"`
	Count    int   `json:"count"`
	Quantity int   `json:"quantity"`
}

func Totals(sales []model.SaleRecord) SalesTotals {
	var totals SalesTotals
	for _, sale := range sales {
		totals.Revenue += sale.Total
		totals.Count++
		totals.Quantity += sale.Quantity
	}
	return totals
}

// Ranking is a revenue-ordered group (item or category).
type Ranking struct {
	Key      string `json:"key"`
	Revenue  int64  `json:"revenue"`
	Quantity int    `json:"quantity"`
}

// TopItems groups sales by item name, sums revenue and quantity, and
// returns the top n by revenue.
func TopItems(sales []model.SaleRecord, n int) []Ranking {
	byItem := map[string]*Ranking{}
	for _, sale := range sales {
		r, ok := byItem[sale.ItemName]
		if !ok {
			r = &Ranking{Key: sale.ItemName}
			byItem[sale.ItemName] = r
		}
		r.Revenue += sale.Total
		r.Quantity += sale.Quantity
	}
	return topN(byItem, n)
}

// TopCategories resolves each sale's category through the item id and
// ranks categories by revenue. Sales whose item no longer exists fall
// into the empty category.
func TopCategories(sales []model.SaleRecord, items []model.InventoryItem, n int) []Ranking {
	categoryOf := map[uuid.UUID]string{}
	for _, item := range items {
		categoryOf[item.ID] = item.Category
	}
	byCategory := map[string]*Ranking{}
	for _, sale := range sales {
		key := categoryOf[sale.ItemID]
		r, ok := byCategory[key]
		if !ok {
			r = &Ranking{Key: key}
			byCategory[key] = r
		}
		r.Revenue += sale.Total
		r.Quantity += sale.Quantity
	}
	return topN(byCategory, n)
}

func topN(groups map[string]*Ranking, n int) []Ranking {
	ranked := make([]Ranking, 0, len(groups))
	for _, r := range groups {
		ranked = append(ranked, *r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Key < ranked[j].Key
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// DayBucket is one day of the revenue series. Days without sales are
// omitted.
type DayBucket struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

func DailySeries(sales []model.SaleRecord) []DayBucket {
	byDay := map[string]*DayBucket{}
	for _, sale := range sales {
		b, ok := byDay[sale.Date]
		if !ok {
			b = &DayBucket{Date: sale.Date}
			byDay[sale.Date] = b
		}
		b.Revenue += sale.Total
		b.Count++
	}
	series := make([]DayBucket, 0, len(byDay))
	for _, b := range byDay {
		series = append(series, *b)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

// ItemProfit is per-item profitability over a filtered set of sales.
type ItemProfit struct {
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"name"`
	Revenue  int64     `json:"revenue"`
	Cost     int64     `json:"cost"`
	Profit   int64     `json:"profit"`
	Quantity int       `json:"quantity"`
}

// ProfitReport totals revenue against purchase cost. Costs resolve by
// item id; sales of deleted items contribute revenue but no cost.
type ProfitReport struct {
	TotalRevenue int64        `json:"total_revenue"`
	TotalCost    int64        `json:"total_cost"`
	TotalProfit  int64        `json:"total_profit"`
	Margin       float64      `json:"margin"`
	Items        []ItemProfit `json:"items"`
}

func Profitability(sales []model.SaleRecord, items []model.InventoryItem) ProfitReport {
	costOf := map[uuid.UUID]int64{}
	for _, item := range items {
		costOf[item.ID] = item.PurchasePrice
	}

	byItem := map[uuid.UUID]*ItemProfit{}
	var report ProfitReport
	for _, sale := range sales {
		cost := costOf[sale.ItemID] * int64(sale.Quantity)
		p, ok := byItem[sale.ItemID]
		if !ok {
			p = &ItemProfit{ItemID: sale.ItemID, Name: sale.ItemName}
			byItem[sale.ItemID] = p
		}
		p.Revenue += sale.Total
		p.Cost += cost
		p.Profit += sale.Total - cost
		p.Quantity += sale.Quantity

		report.TotalRevenue += sale.Total
		report.TotalCost += cost
	}
	report.TotalProfit = report.TotalRevenue - report.TotalCost
	if report.TotalRevenue > 0 {
		report.Margin = float64(report.TotalProfit) / float64(report.TotalRevenue)
	}

	report.Items = make([]ItemProfit, 0, len(byItem))
	for _, p := range byItem {
		report.Items = append(report.Items, *p)
	}
	sort.Slice(report.Items, func(i, j int) bool { return report.Items[i].Profit > report.Items[j].Profit })
	return report
}

// Depletion risk buckets
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// DepletionForecast is a linear days-until-empty estimate from average
// consumption over the report window. A dashboard hint, not a promise.
type DepletionForecast struct {
	ItemID           uuid.UUID `json:"item_id"`
	Name             string    `json:"name"`
	Quantity         int       `json:"quantity"`
	DailyConsumption float64   `json:"daily_consumption"`
	DaysRemaining    int       `json:"days_remaining"`
	Risk             string    `json:"risk"`
}

// StockDepletion projects each item sold in the window. Items with no
// sales in the window are skipped: zero consumption gives no signal.
func StockDepletion(sales []model.SaleRecord, items []model.InventoryItem, r DateRange) []DepletionForecast {
	days := r.Days()
	if days <= 0 {
		return []DepletionForecast{}
	}

	soldInWindow := map[uuid.UUID]int{}
	for _, sale := range FilterByRange(sales, r) {
		soldInWindow[sale.ItemID] += sale.Quantity
	}

	forecasts := []DepletionForecast{}
	for _, item := range items {
		sold := soldInWindow[item.ID]
		if sold == 0 {
			continue
		}
		daily := float64(sold) / float64(days)
		remaining := int(float64(item.Quantity) / daily)

		risk := RiskLow
		switch {
		case remaining <= 3:
			risk = RiskHigh
		case remaining <= 7:
			risk = RiskMedium
		}

		forecasts = append(forecasts, DepletionForecast{
			ItemID:           item.ID,
			Name:             item.Name,
			Quantity:         item.Quantity,
			DailyConsumption: daily,
			DaysRemaining:    remaining,
			Risk:             risk,
		})
	}
	sort.Slice(forecasts, func(i, j int) bool { return forecasts[i].DaysRemaining < forecasts[j].DaysRemaining })
	return forecasts
}

// DedupAdjustments collapses stock_adjusted entries for the same item
// with identical from/to values landing within the same minute. Rapid
// double-submits produce these; only one is worth displaying.
func DedupAdjustments(entries []model.InventoryHistoryEntry) []model.InventoryHistoryEntry {
	type dedupKey struct {
		itemID uuid.UUID
		from   string
		to     string
		minute string
	}
	seen := map[dedupKey]bool{}
	deduped := []model.InventoryHistoryEntry{}
	for _, entry := range entries {
		if entry.Action != model.ActionStockAdjusted {
			deduped = append(deduped, entry)
			continue
		}
		change := entry.Changes["quantity"]
		key := dedupKey{
			itemID: entry.ItemID,
			from:   fmt.Sprint(change.From),
			to:     fmt.Sprint(change.To),
			minute: entry.CreatedAt.Format("2006-01-02T15:04"),
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, entry)
	}
	return deduped
}

// DashboardStats is the overview card set.
type DashboardStats struct {
	TotalItems     int   `json:"total_items"`
	LowStockCount  int   `json:"low_stock_count"`
	OutOfStock     int   `json:"out_of_stock_count"`
	StockValuation int64 `json:"stock_valuation"`
	TablesOccupied int   `json:"tables_occupied"`
	TodayRevenue   int64 `json:"today_revenue"`
	TodaySales     int   `json:"today_sales"`
}

// SalesReport bundles everything a reporting view needs for one range.
type SalesReport struct {
	Range         DateRange   `json:"range"`
	Totals        SalesTotals `json:"totals"`
	TopItems      []Ranking   `json:"top_items"`
	TopCategories []Ranking   `json:"top_categories"`
	Daily         []DayBucket `json:"daily"`
}

type ReportService interface {
	GetSalesReport(preset, start, end string) (*SalesReport, error)
	GetProfitability(preset, start, end string) (*ProfitReport, error)
	GetStockDepletion(preset, start, end string) ([]DepletionForecast, error)
	GetDashboardStats() (*DashboardStats, error)
	GetHistory(itemID *uuid.UUID) ([]model.InventoryHistoryEntry, error)
}

type reportService struct {
	saleRepo    repository.SaleRepository
	itemRepo    repository.InventoryRepository
	tableRepo   repository.TableRepository
	historyRepo repository.HistoryRepository
}

func NewReportService(
	saleRepo repository.SaleRepository,
	itemRepo repository.InventoryRepository,
	tableRepo repository.TableRepository,
	historyRepo repository.HistoryRepository,
) ReportService {
	return &reportService{
		saleRepo:    saleRepo,
		itemRepo:    itemRepo,
		tableRepo:   tableRepo,
		historyRepo: historyRepo,
	}
}

func (s *reportService) GetSalesReport(preset, start, end string) (*SalesReport, error) {
	r, err := ResolveRange(preset, start, end, time.Now())
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}

	filtered := FilterByRange(sales, r)
	return &SalesReport{
		Range:         r,
		Totals:        Totals(filtered),
		TopItems:      TopItems(filtered, 5),
		TopCategories: TopCategories(filtered, items, 5),
		Daily:         DailySeries(filtered),
	}, nil
}

func (s *reportService) GetProfitability(preset, start, end string) (*ProfitReport, error) {
	r, err := ResolveRange(preset, start, end, time.Now())
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}
	report := Profitability(FilterByRange(sales, r), items)
	return &report, nil
}

func (s *reportService) GetStockDepletion(preset, start, end string) ([]DepletionForecast, error) {
	r, err := ResolveRange(preset, start, end, time.Now())
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return StockDepletion(sales, items, r), nil
}

func (s *reportService) GetDashboardStats() (*DashboardStats, error) {
	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}
	tables, err := s.tableRepo.FindAll()
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalItems: len(items)}
	for _, item := range items {
		switch item.Level() {
		case model.StockOut:
			stats.OutOfStock++
			stats.LowStockCount++
		case model.StockLow:
			stats.LowStockCount++
		}
		stats.StockValuation += int64(item.Quantity) * item.PurchasePrice
	}
	for _, table := range tables {
		if table.Status == model.TableOccupied {
			stats.TablesOccupied++
		}
	}
	today := time.Now().Format(model.DateLayout)
	for _, sale := range sales {
		if sale.Date == today {
			stats.TodayRevenue += sale.Total
			stats.TodaySales++
		}
	}
	return stats, nil
}

// GetHistory returns deduplicated audit entries, optionally scoped to
// one item.
func (s *reportService) GetHistory(itemID *uuid.UUID) ([]model.InventoryHistoryEntry, error) {
	var entries []model.InventoryHistoryEntry
	var err error
	if itemID != nil {
		entries, err = s.historyRepo.FindByItem(*itemID)
	} else {
		entries, err = s.historyRepo.FindAll()
	}
	if err != nil {
		return nil, err
	}
	return DedupAdjustments(entries), nil
}
