package cli

import (
	"github.com/spf13/cobra"
)

// NewReplenishCommand creates the replenish command.
func NewReplenishCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replenish [product-id]",
		Short: "Open replenishment orders for products below their minimum",
		Long: `Open replenishment orders. With a product id, only that product is
checked; without one the whole catalog is scanned. Each product below
its minimum and with a configured supplier yields one new pending order
requesting exactly the shortfall.

Example:
  despensa replenish
  despensa replenish PAN`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			productID := ""
			if len(args) == 1 {
				productID = args[0]
			}
			return runReplenish(rootOpts, productID, cmd)
		},
	}
	return cmd
}

func runReplenish(rootOpts *RootOptions, productID string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	var created []string
	if productID == "" {
		created, err = a.inventory.ReplenishAll()
		if err != nil {
			return domainExitError("replenishment failed", err)
		}
	} else {
		p, err := a.inventory.Product(productID)
		if err != nil {
			return domainExitError("product not found", err)
		}
		id, err := a.inventory.Replenish(p)
		if err != nil {
			return domainExitError("replenishment failed", err)
		}
		if id != "" {
			created = append(created, id)
		}
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	if f.JSON() {
		return f.Success(map[string]any{"orders_created": created})
	}
	if len(created) == 0 {
		f.Textf("nothing to replenish")
		return nil
	}
	for _, id := range created {
		f.Textf("order %s created", id)
	}
	return nil
}
