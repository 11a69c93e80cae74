package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/despensa/despensa/internal/catalog"
)

// ProductOptions holds flags for the product add command.
type ProductOptions struct {
	*RootOptions
	Stock    int
	MinStock int
	Unit     string
	Cost     string
}

// NewProductCommand creates the product command family.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}

	cmd.AddCommand(newProductAddCommand(rootOpts))
	cmd.AddCommand(newProductAddBundleCommand(rootOpts))
	cmd.AddCommand(newProductListCommand(rootOpts))
	cmd.AddCommand(newProductShowCommand(rootOpts))
	cmd.AddCommand(newProductRemoveCommand(rootOpts))
	cmd.AddCommand(newProductSetMinCommand(rootOpts))
	cmd.AddCommand(newProductRenameCommand(rootOpts))
	cmd.AddCommand(newProductAssignCommand(rootOpts))
	cmd.AddCommand(newProductUnassignCommand(rootOpts))

	return cmd
}

func newProductAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add or replace an ingredient product",
		Long: `Add or replace an ingredient product.

Example:
  despensa product add PAN "Pan lactal" --stock 10 --min 5 --unit UNIT --cost 350.50`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductAdd(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Stock, "stock", 0, "initial stock")
	cmd.Flags().IntVar(&opts.MinStock, "min", 0, "minimum stock before replenishment triggers")
	cmd.Flags().StringVar(&opts.Unit, "unit", string(catalog.UnitPiece), "measurement unit (UNIT|KILO|LITRE)")
	cmd.Flags().StringVar(&opts.Cost, "cost", "", "unit cost (required)")
	_ = cmd.MarkFlagRequired("cost")

	return cmd
}

func runProductAdd(opts *ProductOptions, id, name string, cmd *cobra.Command) error {
	unit, err := catalog.ParseUnit(opts.Unit)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --unit", err)
	}
	cost, err := decimal.NewFromString(opts.Cost)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --cost", err)
	}
	p, err := catalog.NewIngredient(id, name, opts.Stock, opts.MinStock, unit, cost)
	if err != nil {
		return domainExitError("invalid product", err)
	}

	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.inventory.SaveProduct(p); err != nil {
		return domainExitError("failed to save product", err)
	}

	f := NewOutputFormatter(opts.Format, cmd.OutOrStdout(), opts.Verbose)
	f.Textf("saved %s (%s)", p.ID(), p.Name())
	if f.JSON() {
		return f.Success(viewProduct(p))
	}
	return nil
}

func newProductAddBundleCommand(rootOpts *RootOptions) *cobra.Command {
	var components []string

	cmd := &cobra.Command{
		Use:   "add-bundle <id> <name>",
		Short: "Add or replace a bundle of other products",
		Long: `Add or replace a bundle. Each --component references an existing
product by id with a quantity.

Example:
  despensa product add-bundle COMBO1 "Combo sandwich" --component PAN:2 --component QUESO:1`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductAddBundle(rootOpts, args[0], args[1], components, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&components, "component", nil, "component as id:qty (repeatable)")
	_ = cmd.MarkFlagRequired("component")

	return cmd
}

func runProductAddBundle(rootOpts *RootOptions, id, name string, components []string, cmd *cobra.Command) error {
	bundle, err := catalog.NewBundle(id, name)
	if err != nil {
		return domainExitError("invalid bundle", err)
	}

	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, spec := range components {
		pid, qty, err := parseQtyRef(spec)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --component", err)
		}
		ref, err := a.inventory.Product(pid)
		if err != nil {
			return domainExitError("unknown component", err)
		}
		if err := bundle.AddComponent(ref, qty); err != nil {
			return domainExitError("invalid component", err)
		}
	}

	if err := a.inventory.SaveProduct(bundle); err != nil {
		return domainExitError("failed to save bundle", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("saved %s (%s) with %d components", bundle.ID(), bundle.Name(), len(bundle.Components()))
	if f.JSON() {
		return f.Success(viewProduct(bundle))
	}
	return nil
}

func newProductListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List the product catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductList(rootOpts, cmd)
		},
	}
	return cmd
}

func runProductList(rootOpts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.inventory.Products()
	if err != nil {
		return domainExitError("failed to list products", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	if f.JSON() {
		views := make([]productView, 0, len(all))
		for _, p := range all {
			views = append(views, viewProduct(p))
		}
		return f.Success(views)
	}
	for _, p := range all {
		if p.Kind() == catalog.KindBundle {
			f.Textf("%s  %s  [bundle]  price %s", p.ID(), p.Name(), p.Price())
			continue
		}
		f.Textf("%s  %s  stock %d (min %d)  %s  cost %s", p.ID(), p.Name(), p.Stock(), p.MinStock(), p.Unit(), p.UnitCost())
	}
	return nil
}

func newProductShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one product",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductShow(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runProductShow(rootOpts *RootOptions, id string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.inventory.Product(id)
	if err != nil {
		return domainExitError("product not found", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	if f.JSON() {
		return f.Success(viewProduct(p))
	}
	f.Textf("%s  %s  (%s)", p.ID(), p.Name(), p.Kind())
	if p.Kind() == catalog.KindIngredient {
		f.Textf("  stock %d (min %d)  unit %s  cost %s", p.Stock(), p.MinStock(), p.Unit(), p.UnitCost())
	}
	for _, c := range p.Components() {
		f.Textf("  component %s x%d", c.Product().ID(), c.Qty())
	}
	f.Textf("  price %s", p.Price())
	return nil
}

func newProductRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "remove <id>",
		Short:         "Remove a product from the catalog",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductRemove(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runProductRemove(rootOpts *RootOptions, id string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.inventory.RemoveProduct(id); err != nil {
		return domainExitError("failed to remove product", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("removed %s", id)
	if f.JSON() {
		return f.Success(map[string]string{"removed": id})
	}
	return nil
}

func newProductSetMinCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "set-min <id> <n>",
		Short:         "Change a product's minimum stock",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "minimum must be a number", err)
			}
			return runProductSetMin(rootOpts, args[0], n, cmd)
		},
	}
	return cmd
}

func runProductSetMin(rootOpts *RootOptions, id string, n int, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.inventory.Product(id)
	if err != nil {
		return domainExitError("product not found", err)
	}
	if err := p.SetMinStock(n); err != nil {
		return domainExitError("invalid minimum", err)
	}
	if err := a.inventory.SaveProduct(p); err != nil {
		return domainExitError("failed to save product", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("%s minimum stock set to %d", id, n)
	if f.JSON() {
		return f.Success(viewProduct(p))
	}
	return nil
}

func newProductRenameCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rename <id> <new-name>",
		Short:         "Rename a product",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductRename(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runProductRename(rootOpts *RootOptions, id, name string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.inventory.Product(id)
	if err != nil {
		return domainExitError("product not found", err)
	}
	if err := p.Rename(name); err != nil {
		return domainExitError("invalid name", err)
	}
	if err := a.inventory.SaveProduct(p); err != nil {
		return domainExitError("failed to save product", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("%s renamed to %s", id, name)
	if f.JSON() {
		return f.Success(viewProduct(p))
	}
	return nil
}

func newProductAssignCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "assign <product-id> <supplier-id>",
		Short:         "Configure which supplier replenishes a product",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductAssign(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runProductAssign(rootOpts *RootOptions, productID, supplierID string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.inventory.Product(productID); err != nil {
		return domainExitError("product not found", err)
	}
	if _, ok, err := a.suppliers.Find(supplierID); err != nil {
		return domainExitError("failed to look up supplier", err)
	} else if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("supplier %q not found", supplierID))
	}
	if err := a.assignments.Assign(productID, supplierID); err != nil {
		return domainExitError("failed to assign supplier", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("%s will be replenished by %s", productID, supplierID)
	if f.JSON() {
		return f.Success(map[string]string{"product_id": productID, "supplier_id": supplierID})
	}
	return nil
}

func newProductUnassignCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "unassign <product-id>",
		Short:         "Remove a product's supplier assignment",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductUnassign(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runProductUnassign(rootOpts *RootOptions, productID string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.assignments.Unassign(productID); err != nil {
		return domainExitError("failed to unassign supplier", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("%s has no supplier configured", productID)
	if f.JSON() {
		return f.Success(map[string]string{"product_id": productID})
	}
	return nil
}

// parseQtyRef parses an "id:qty" argument.
func parseQtyRef(s string) (string, int, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return "", 0, fmt.Errorf("want id:qty, got %q", s)
	}
	qty, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("quantity in %q is not a number", s)
	}
	return s[:i], qty, nil
}
