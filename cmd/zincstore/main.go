package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/zincstore/zincstore/config"
	"github.com/zincstore/zincstore/internal/adminapi"
	"github.com/zincstore/zincstore/internal/app"
	"github.com/zincstore/zincstore/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var configFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "zincstore",
		Short:        "Retail inventory and point of sale ledger",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default zincstore.yml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the admin api",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "initdb",
			Short: "Drop and recreate the ledger tables",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(a *app.Application) error {
					a.InitDb()
					zap.S().Info("database initialized")
					return nil
				})
			},
		},
		newProductCmd(),
		newExpenseCmd(),
		newReportCmd(),
	)
	return root
}

func withApp(fn func(a *app.Application) error) error {
	cfg := config.LoadConfig(configFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()
	return fn(application)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(func(a *app.Application) error {
		adminapi.Init()
		srv := webserver.NewAdminServer(a)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Start(gctx)
		})
		return g.Wait()
	})
}

func newProductCmd() *cobra.Command {
	var (
		price    string
		quantity int
		photo    string
	)
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a product or restock an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := decimal.NewFromString(price)
			if err != nil {
				return errors.Wrapf(err, "invalid price %q", price)
			}
			return withApp(func(a *app.Application) error {
				product, err := a.Session().UpsertProduct(cmd.Context(), args[0], p, quantity, photo)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%d\n",
					product.ID, product.Name, product.Price.StringFixed(2), product.Quantity)
				return nil
			})
		},
	}
	add.Flags().StringVar(&price, "price", "", "unit price")
	add.Flags().IntVar(&quantity, "qty", 0, "quantity to add")
	add.Flags().StringVar(&photo, "photo", "", "photo reference")
	_ = add.MarkFlagRequired("price")
	_ = add.MarkFlagRequired("qty")

	cmd := &cobra.Command{Use: "product", Short: "Manage the catalog"}
	cmd.AddCommand(add)
	return cmd
}

func newExpenseCmd() *cobra.Command {
	add := &cobra.Command{
		Use:   "add DESCRIPTION AMOUNT",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return errors.Wrapf(err, "invalid amount %q", args[1])
			}
			return withApp(func(a *app.Application) error {
				id, err := a.Session().RecordExpense(cmd.Context(), args[0], amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\n", id)
				return nil
			})
		},
	}
	cmd := &cobra.Command{Use: "expense", Short: "Manage expenses"}
	cmd.AddCommand(add)
	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		date string
		xlsx string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if strings.TrimSpace(date) != "" {
				var err error
				if day, err = dateparse.ParseIn(date, time.Local); err != nil {
					return errors.Wrapf(err, "invalid date %q", date)
				}
			}
			return withApp(func(a *app.Application) error {
				r, err := a.Session().DailyReport(cmd.Context(), day)
				if err != nil {
					return err
				}
				d := r.Dashboard
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Date:             %s\n", d.Date)
				fmt.Fprintf(out, "Today's sales:    %s\n", d.TodaySales.StringFixed(2))
				fmt.Fprintf(out, "Today's expenses: %s\n", d.TodayExpenses.StringFixed(2))
				fmt.Fprintf(out, "Net income:       %s\n", d.NetIncome.StringFixed(2))
				fmt.Fprintf(out, "Total income:     %s\n", d.TotalIncome.StringFixed(2))
				fmt.Fprintf(out, "Total expenses:   %s\n", d.TotalExpenses.StringFixed(2))
				if xlsx == "" {
					return nil
				}
				f, err := os.Create(xlsx)
				if err != nil {
					return err
				}
				defer f.Close()
				return r.WriteXLSX(f)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to report (default today)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the report workbook to this file")
	return cmd
}
