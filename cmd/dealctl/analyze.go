package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dealscout/internal/dealcalc"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	gainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	lossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Factor keys shared by flags, config file and environment.
const (
	keyStrategy       = "factors.strategy"
	keyPurchaseModel  = "factors.purchase_model"
	keyInterestRate   = "factors.interest_rate"
	keyDownPayment    = "factors.down_payment_percentage"
	keyRehabFinancing = "factors.rehab_financing_percentage"
	keyHoldingPeriod  = "factors.holding_period"
	keyMiscCosts      = "factors.misc_costs_percentage"
)

func analyzeCmd() *cobra.Command {
	var p dealcalc.Property
	var showCosts bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute the metrics of one property",
		Long: `Compute financing costs, net profit and ROI of a property.

Factors not given as flags come from the config file, DEALCTL_* environment
variables, or the built-in defaults (financed fix-and-flip at 5%).`,
		Example: `  dealctl analyze --price 100000 --arv 180000 --renovation 20000
  dealctl analyze --price 95000 --arv 150000 --renovation 20000 --purchase-model cash --costs`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if p.Price <= 0 {
				return fmt.Errorf("--price must be positive")
			}
			f, err := factorsFromConfig()
			if err != nil {
				return err
			}
			printAnalysis(cmd.OutOrStdout(), p, f, showCosts)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&p.Address, "address", "", "property address, used as the report title")
	flags.Float64Var(&p.Price, "price", 0, "purchase price")
	flags.Float64Var(&p.EstimatedARV, "arv", 0, "estimated after-repair value")
	flags.Float64Var(&p.RenovationCost, "renovation", 0, "renovation cost")
	flags.BoolVar(&showCosts, "costs", false, "also print the estimated cost sheet of the strategy")

	d := dealcalc.DefaultFactors()
	flags.String("strategy", string(d.Strategy), "investment strategy (fix-and-flip, turnkey-rental, brrr, wholesale)")
	flags.String("purchase-model", string(d.PurchaseModel), "purchase model (financed, cash)")
	flags.Float64("interest-rate", d.InterestRate, "annual interest rate in percent")
	flags.Float64("down-payment", d.DownPaymentPercentage, "down payment in percent of the price")
	flags.Float64("rehab-financing", d.RehabFinancingPercentage, "financed share of the renovation in percent")
	flags.Float64("holding-period", d.HoldingPeriod, "holding period in months")
	flags.Float64("misc-costs", d.MiscCostsPercentage, "misc overhead in percent of the renovation cost")

	_ = viper.BindPFlag(keyStrategy, flags.Lookup("strategy"))
	_ = viper.BindPFlag(keyPurchaseModel, flags.Lookup("purchase-model"))
	_ = viper.BindPFlag(keyInterestRate, flags.Lookup("interest-rate"))
	_ = viper.BindPFlag(keyDownPayment, flags.Lookup("down-payment"))
	_ = viper.BindPFlag(keyRehabFinancing, flags.Lookup("rehab-financing"))
	_ = viper.BindPFlag(keyHoldingPeriod, flags.Lookup("holding-period"))
	_ = viper.BindPFlag(keyMiscCosts, flags.Lookup("misc-costs"))

	return cmd
}

// factorsFromConfig starts from the defaults and applies every configured
// factor. The current costs track the presets of the chosen pair.
func factorsFromConfig() (dealcalc.CalculationFactors, error) {
	f := dealcalc.DefaultFactors()

	if raw := viper.GetString(keyStrategy); raw != "" {
		s, err := dealcalc.ParseStrategy(raw)
		if err != nil {
			return f, err
		}
		if f, err = f.WithStrategy(s, true); err != nil {
			return f, err
		}
	}
	if raw := viper.GetString(keyPurchaseModel); raw != "" {
		m, err := dealcalc.ParsePurchaseModel(raw)
		if err != nil {
			return f, err
		}
		if f, err = f.WithPurchaseModel(m, true); err != nil {
			return f, err
		}
	}

	for key, dst := range map[string]*float64{
		keyInterestRate:   &f.InterestRate,
		keyDownPayment:    &f.DownPaymentPercentage,
		keyRehabFinancing: &f.RehabFinancingPercentage,
		keyHoldingPeriod:  &f.HoldingPeriod,
		keyMiscCosts:      &f.MiscCostsPercentage,
	} {
		if viper.IsSet(key) {
			*dst = viper.GetFloat64(key)
		}
	}
	return f, nil
}

func printAnalysis(out io.Writer, p dealcalc.Property, f dealcalc.CalculationFactors, showCosts bool) {
	title := p.Address
	if title == "" {
		title = "Deal analysis"
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	fmt.Fprintln(out, labelStyle.Render(fmt.Sprintf("%s, %s purchase", f.Strategy.Label(), f.PurchaseModel)))
	fmt.Fprintln(out)

	m := dealcalc.Evaluate(p, f)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Purchase price\t%s\n", dealcalc.FormatCurrency(p.Price))
	fmt.Fprintf(w, "Renovation\t%s\n", dealcalc.FormatCurrency(p.RenovationCost))
	fmt.Fprintf(w, "Financing costs\t%s\n", dealcalc.FormatCurrency(m.FinancingCosts))
	fmt.Fprintf(w, "Misc costs\t%s\n", dealcalc.FormatCurrency(m.MiscCosts))
	fmt.Fprintf(w, "Total costs\t%s\n", dealcalc.FormatCurrency(m.TotalCosts))
	fmt.Fprintf(w, "After-repair value\t%s\n", dealcalc.FormatCurrency(p.EstimatedARV))
	fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 18), strings.Repeat("-", 12))
	fmt.Fprintf(w, "Net profit\t%s\n", styleAmount(m.NetProfit, dealcalc.FormatCurrency(m.NetProfit)))
	fmt.Fprintf(w, "ROI\t%s\n", styleAmount(m.ROI, formatPercent(m.ROI)))
	_ = w.Flush()

	if showCosts {
		fmt.Fprintln(out)
		printCostSheet(out, f.CurrentCosts, f.Strategy)
	}
}

func styleAmount(v float64, s string) string {
	switch {
	case math.IsNaN(v):
		return s
	case v < 0:
		return lossStyle.Render(s)
	default:
		return gainStyle.Render(s)
	}
}

func formatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v)
}
