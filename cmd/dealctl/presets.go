package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dealscout/internal/dealcalc"
)

func presetsCmd() *cobra.Command {
	var strategy, model string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Print the built-in cost presets",
		Long:  `Print the default estimated-cost presets per strategy and purchase model, item by item, with category and strategy totals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strategies := dealcalc.Strategies()
			if strategy != "" {
				s, err := dealcalc.ParseStrategy(strategy)
				if err != nil {
					return err
				}
				strategies = []dealcalc.Strategy{s}
			}
			models := dealcalc.PurchaseModels()
			if model != "" {
				m, err := dealcalc.ParsePurchaseModel(model)
				if err != nil {
					return err
				}
				models = []dealcalc.PurchaseModel{m}
			}

			presets := dealcalc.DefaultPresets()
			out := cmd.OutOrStdout()
			for _, s := range strategies {
				for _, m := range models {
					costs, err := presets.Lookup(s, m)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s)", s.Label(), m)))
					printCostSheet(out, costs, s)
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "only print this strategy")
	cmd.Flags().StringVar(&model, "purchase-model", "", "only print this purchase model")

	return cmd
}

// printCostSheet lists the relevant categories of s with their items and
// totals.
func printCostSheet(out io.Writer, costs dealcalc.StrategyCosts, s dealcalc.Strategy) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, line := range dealcalc.Breakdown(costs, s) {
		fmt.Fprintf(w, "%s\t\t%s\n", labelStyle.Render(line.Label), dealcalc.FormatCurrency(line.Total))
		for _, item := range line.Items.Items() {
			fmt.Fprintf(w, "\t%s\t%s\n", item, dealcalc.FormatCurrency(line.Items[item]))
		}
	}
	fmt.Fprintf(w, "Estimated costs\t\t%s\n", dealcalc.FormatCurrency(dealcalc.TotalForStrategy(costs, s)))
	_ = w.Flush()
}
