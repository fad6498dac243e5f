package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/pkg/metrics"
	"go.uber.org/zap"
)

const (
	MetricTodaySales    = "zincstore_today_sales"
	MetricTodayExpenses = "zincstore_today_expenses"
	MetricNetIncome     = "zincstore_net_income"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 5m", func() {
		go a.recordLedgerGauges()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		// fires at midnight, so summarise the day that just ended
		go a.SchedDailySummaryTask(time.Now().Add(-time.Minute))
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// cents converts a money amount to an integer gauge value
func cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// recordLedgerGauges stores today's figures as metric points
func (a *Application) recordLedgerGauges() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if a.session == nil {
		return
	}

	daily, err := a.session.Aggregator().DailyFinancials(context.Background(), time.Now())
	if err != nil {
		zap.L().Error("failed to compute daily financials", zap.String("namespace", "metrics"), zap.Error(err))
		return
	}
	metrics.SetGauge(MetricTodaySales, cents(daily.TodaySales))
	metrics.SetGauge(MetricTodayExpenses, cents(daily.TodayExpenses))
	metrics.SetGauge(MetricNetIncome, cents(daily.NetIncome))
}

// SchedDailySummaryTask logs the closing figures of the day of asOf
func (a *Application) SchedDailySummaryTask(asOf time.Time) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if a.session == nil {
		return
	}

	stats, err := a.session.SalesStatistics(context.Background(), asOf)
	if err != nil {
		zap.L().Error("daily summary failed", zap.String("namespace", "report"), zap.Error(err))
		return
	}
	dash, err := a.session.Dashboard(context.Background(), asOf)
	if err != nil {
		zap.L().Error("daily summary failed", zap.String("namespace", "report"), zap.Error(err))
		return
	}
	zap.L().Info("daily summary",
		zap.String("namespace", "report"),
		zap.String("date", dash.Date),
		zap.Int("sales", stats.Count),
		zap.String("today_sales", dash.TodaySales.StringFixed(2)),
		zap.String("today_expenses", dash.TodayExpenses.StringFixed(2)),
		zap.String("net_income", dash.NetIncome.StringFixed(2)),
		zap.String("median_sale", stats.Median.StringFixed(2)))
}
