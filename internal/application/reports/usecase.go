// Package reports arma los reportes financieros y de inventario sobre el
// ReportRepository, con caché de corta duración y exportación a XLSX.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/accounting"
	"github.com/jhoicas/Comercio-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// UseCase casos de uso de reportes.
type UseCase struct {
	repos    ports.Repos
	cache    ports.Cache
	exporter ports.SpreadsheetExporter
	log      *logger.Logger
	ttl      time.Duration
	loc      *time.Location
	now      func() time.Time
}

// NewUseCase construye el caso de uso. cache y exporter pueden ser nil; ttl <= 0 desactiva la caché.
func NewUseCase(repos ports.Repos, cache ports.Cache, exporter ports.SpreadsheetExporter, log *logger.Logger, ttl time.Duration) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		repos: repos, cache: cache, exporter: exporter, log: log.Component("reports"),
		ttl: ttl, loc: time.Local, now: time.Now,
	}
}

func cacheKey(companyID, report string, parts ...string) string {
	key := "reports:" + companyID + ":" + report
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// cached devuelve el valor guardado o lo construye y lo guarda. Las fallas de la
// caché se registran y el reporte se calcula igual.
func cached[T any](ctx context.Context, uc *UseCase, key string, build func() (T, error)) (T, error) {
	if uc.cache == nil || uc.ttl <= 0 {
		return build()
	}
	if raw, ok, err := uc.cache.Get(ctx, key); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		uc.log.Warn().Str("key", key).Msg("entrada de caché ilegible")
	}
	v, err := build()
	if err != nil {
		return v, err
	}
	if raw, err := json.Marshal(v); err == nil {
		if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
		}
	}
	return v, nil
}

// Invalidate descarta los reportes en caché de la empresa.
func (uc *UseCase) Invalidate(ctx context.Context, companyID string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.DeletePrefix(ctx, cacheKey(companyID, ""))
}

// period resuelve el rango inclusivo; por defecto desde el primer día del mes hasta hoy.
// Devuelve los límites semiabiertos y las fechas normalizadas para la respuesta.
func (uc *UseCase) period(dr dto.DateRange) (from, to time.Time, fromDay, toDay string, err error) {
	today := uc.now().In(uc.loc)
	if dr.From == "" {
		dr.From = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, uc.loc).Format(dayLayout)
	}
	if dr.To == "" {
		dr.To = today.Format(dayLayout)
	}
	f, t, err := dr.Bounds(uc.loc)
	if err != nil {
		return time.Time{}, time.Time{}, "", "", err
	}
	return *f, *t, dr.From, dr.To, nil
}

// ProfitAndLoss estado de resultados del período.
func (uc *UseCase) ProfitAndLoss(ctx context.Context, companyID string, q dto.ReportQuery) (*dto.ProfitAndLossResponse, error) {
	from, to, fromDay, toDay, err := uc.period(q.DateRange)
	if err != nil {
		return nil, err
	}
	return cached(ctx, uc, cacheKey(companyID, "pnl", fromDay, toDay), func() (*dto.ProfitAndLossResponse, error) {
		sales, err := uc.repos.Reports.SalesTotals(ctx, companyID, from, to)
		if err != nil {
			return nil, fmt.Errorf("ventas: %w", err)
		}
		expenses, err := uc.repos.Reports.ExpensesByCategory(ctx, companyID, from, to)
		if err != nil {
			return nil, fmt.Errorf("gastos: %w", err)
		}
		income, err := uc.repos.Reports.IncomeTotal(ctx, companyID, from, to)
		if err != nil {
			return nil, fmt.Errorf("ingresos: %w", err)
		}
		pl := accounting.BuildProfitAndLoss(accounting.PLInput{
			Revenue: sales.Revenue, COGS: sales.COGS, Expenses: expenses, OtherIncome: income,
		})
		return &dto.ProfitAndLossResponse{From: fromDay, To: toDay, ProfitAndLoss: pl}, nil
	})
}

// BalanceSheet balance al cierre del día as_of (hoy por defecto).
func (uc *UseCase) BalanceSheet(ctx context.Context, companyID string, q dto.BalanceSheetQuery) (*dto.BalanceSheetResponse, error) {
	asOf := q.AsOf
	if asOf == "" {
		asOf = uc.now().In(uc.loc).Format(dayLayout)
	}
	day, err := time.ParseInLocation(dayLayout, asOf, uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: as_of debe ser YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return cached(ctx, uc, cacheKey(companyID, "balance", asOf), func() (*dto.BalanceSheetResponse, error) {
		in, err := uc.repos.Reports.BalanceInputs(ctx, companyID, day.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		return &dto.BalanceSheetResponse{AsOf: asOf, BalanceSheet: accounting.BuildBalanceSheet(in)}, nil
	})
}

// SalesByProduct ventas, costo y utilidad por producto; con top > 0 devuelve solo
// los n productos de mayor ingreso.
func (uc *UseCase) SalesByProduct(ctx context.Context, companyID string, q dto.ReportQuery) (*dto.SalesByProductResponse, error) {
	from, to, fromDay, toDay, err := uc.period(q.DateRange)
	if err != nil {
		return nil, err
	}
	return cached(ctx, uc, cacheKey(companyID, "sales-by-product", fromDay, toDay, fmt.Sprint(q.Top)), func() (*dto.SalesByProductResponse, error) {
		rows, err := uc.repos.Reports.SalesByProduct(ctx, companyID, from, to)
		if err != nil {
			return nil, err
		}
		if q.Top > 0 {
			rows = accounting.TopProducts(rows, q.Top)
		}
		if rows == nil {
			rows = []accounting.ProductSales{}
		}
		return &dto.SalesByProductResponse{From: fromDay, To: toDay, Items: rows}, nil
	})
}

// StockValuation existencias, valor FIFO y costo promedio por producto.
func (uc *UseCase) StockValuation(ctx context.Context, companyID string) (*dto.StockValuationResponse, error) {
	return cached(ctx, uc, cacheKey(companyID, "stock-valuation"), func() (*dto.StockValuationResponse, error) {
		levels, err := uc.repos.Reports.StockLevels(ctx, companyID)
		if err != nil {
			return nil, err
		}
		out := &dto.StockValuationResponse{Items: make([]dto.StockValuationItem, 0, len(levels)), TotalValue: decimal.Zero}
		for _, l := range levels {
			avg := decimal.Zero
			if l.Quantity.IsPositive() {
				avg = l.Value.Div(l.Quantity).Round(4)
			}
			out.Items = append(out.Items, dto.StockValuationItem{
				ProductID: l.ProductID, SKU: l.SKU, Name: l.Name, Quantity: l.Quantity, Value: l.Value, AverageCost: avg,
			})
			out.TotalValue = out.TotalValue.Add(l.Value)
		}
		return out, nil
	})
}

// Dashboard ventas y margen de hoy y del mes en curso, y productos bajo el punto de reorden.
func (uc *UseCase) Dashboard(ctx context.Context, companyID string) (*dto.DashboardResponse, error) {
	now := uc.now().In(uc.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)

	return cached(ctx, uc, cacheKey(companyID, "dashboard", today.Format(dayLayout)), func() (*dto.DashboardResponse, error) {
		day, err := uc.salesPeriod(ctx, companyID, today, tomorrow)
		if err != nil {
			return nil, err
		}
		month, err := uc.salesPeriod(ctx, companyID, monthStart, tomorrow)
		if err != nil {
			return nil, err
		}
		levels, err := uc.repos.Reports.StockLevels(ctx, companyID)
		if err != nil {
			return nil, err
		}
		low := 0
		for _, l := range levels {
			if l.IsLow() {
				low++
			}
		}
		return &dto.DashboardResponse{Today: day, Month: month, LowStockCount: low, GeneratedAt: now}, nil
	})
}

func (uc *UseCase) salesPeriod(ctx context.Context, companyID string, from, to time.Time) (dto.SalesPeriod, error) {
	t, err := uc.repos.Reports.SalesTotals(ctx, companyID, from, to)
	if err != nil {
		return dto.SalesPeriod{}, err
	}
	gross := t.Revenue.Sub(t.COGS)
	return dto.SalesPeriod{Count: t.Count, Revenue: t.Revenue, GrossProfit: gross, Margin: accounting.Margin(gross, t.Revenue)}, nil
}
