package cli

import (
	"github.com/spf13/cobra"

	"github.com/despensa/despensa/internal/sales"
)

// NewSaleCommand creates the sale command family.
func NewSaleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Register and inspect sales",
	}

	cmd.AddCommand(newSaleRegisterCommand(rootOpts))
	cmd.AddCommand(newSaleListCommand(rootOpts))

	return cmd
}

func newSaleRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <id:qty> [id:qty...]",
		Short: "Register a sale and deduct stock",
		Long: `Register a sale. Each argument is one line: a product id and a
quantity. The whole sale is validated against stock before anything is
deducted; if any product falls short the sale is rejected untouched.

Example:
  despensa sale register PAN:2 QUESO:1`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaleRegister(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runSaleRegister(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	requests := make([]sales.Request, 0, len(args))
	for _, arg := range args {
		pid, qty, err := parseQtyRef(arg)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid sale line", err)
		}
		req, err := sales.NewRequest(pid, qty)
		if err != nil {
			return domainExitError("invalid sale line", err)
		}
		requests = append(requests, req)
	}

	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	sale, err := a.inventory.RegisterSale(requests)
	if err != nil {
		return domainExitError("sale rejected", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	if f.JSON() {
		return f.Success(viewSale(sale))
	}
	f.Textf("sale %s registered", sale.ID())
	for _, l := range sale.Lines() {
		f.Textf("  %s x%d @ %s = %s", l.Product().ID(), l.Qty(), l.UnitPrice(), l.Subtotal())
	}
	f.Textf("  total %s", sale.Total())
	return nil
}

func newSaleListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List recorded sales",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaleList(rootOpts, cmd)
		},
	}
	return cmd
}

func runSaleList(rootOpts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.inventory.Sales()
	if err != nil {
		return domainExitError("failed to list sales", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	if f.JSON() {
		views := make([]saleView, 0, len(all))
		for _, s := range all {
			views = append(views, viewSale(s))
		}
		return f.Success(views)
	}
	for _, s := range all {
		f.Textf("%s  %s  %d lines  total %s", s.ID(), s.At().Format("2006-01-02 15:04"), len(s.Lines()), s.Total())
	}
	return nil
}
