package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockcast/internal/backtest"
	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/reorder"
	"github.com/andresuchdata/stockcast/internal/repository/postgres"
	"github.com/andresuchdata/stockcast/internal/service"
	"github.com/andresuchdata/stockcast/internal/timeseries"
	"github.com/andresuchdata/stockcast/pkg/logger"
)

func newServiceLevelFlag() *cli.Float64Flag {
	return &cli.Float64Flag{
		Name:    "service-level",
		Usage:   "Target probability of not stocking out during lead time (0,1)",
		Value:   reorder.DefaultServiceLevel,
		EnvVars: []string{"REORDER_SERVICE_LEVEL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "reorder",
		Usage: "Recompute reorder points and inspect forecast quality",
		Commands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Recompute reorder points for one SKU or the whole catalog",
				Flags: []cli.Flag{
					newServiceLevelFlag(),
					&cli.StringFlag{
						Name:  "sku",
						Usage: "Only update this SKU",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent updates for catalog-wide runs",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "timeout",
						Usage: "Per-product forecast timeout in seconds",
						Value: 0,
					},
				},
				Action: runUpdate,
			},
			{
				Name:  "backtest",
				Usage: "Score a strategy against the most recent demand window",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "sku",
						Usage:    "SKU to score",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Forecasting strategy (trend or arima)",
						Value: string(forecast.StrategyARIMA),
					},
					&cli.StringFlag{
						Name:  "arima-order",
						Usage: "ARIMA order as 'p,d,q'",
					},
					&cli.IntFlag{
						Name:  "horizon",
						Usage: "Validation window in days",
						Value: 14,
					},
				},
				Action: runBacktest,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildReorderService(c *cli.Context, cfg *config.Config) (*service.ReorderService, error) {
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	products := postgres.NewProductRepository(db)
	transactions := postgres.NewTransactionRepository(db)
	suppliers := postgres.NewSupplierRepository(db)

	timeoutSeconds := cfg.Forecast.TimeoutSeconds
	if c.Int("timeout") > 0 {
		timeoutSeconds = c.Int("timeout")
	}
	calculator := reorder.NewCalculator(transactions, reorder.Options{
		ForecastTimeout:  time.Duration(timeoutSeconds) * time.Second,
		DemandWindowDays: cfg.Forecast.DemandWindowDays,
	})
	return service.NewReorderService(products, suppliers, calculator, c.Float64("service-level")), nil
}

func runUpdate(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	svc, err := buildReorderService(c, cfg)
	if err != nil {
		return err
	}

	if sku := c.String("sku"); sku != "" {
		product, err := svc.UpdateReorderPoint(c.Context, sku, c.Float64("service-level"))
		if err != nil {
			return err
		}
		fmt.Printf("%s: reorder point %d\n", product.SKU, product.ReorderPoint)
		return nil
	}

	result, err := svc.UpdateAll(c.Context, c.Float64("service-level"), c.Int("workers"))
	if err != nil {
		return err
	}
	fmt.Printf("updated %d products, %d failed\n", result.Updated, result.Failed)
	return nil
}

func runBacktest(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	transactions := postgres.NewTransactionRepository(db)

	params := forecast.Params{Strategy: forecast.Strategy(c.String("strategy")), Order: forecast.DefaultARIMAOrder}
	if raw := c.String("arima-order"); raw != "" {
		params.Order, err = forecast.ParseARIMAOrder(raw)
		if err != nil {
			return err
		}
	}

	observations, err := transactions.DemandHistory(c.Context, c.String("sku"))
	if err != nil {
		return err
	}
	series, err := timeseries.Prepare(observations)
	if err != nil {
		return err
	}

	result, err := backtest.Run(series, c.Int("horizon"), params)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
