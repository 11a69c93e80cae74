package cli

import (
	"github.com/spf13/cobra"

	"github.com/despensa/despensa/internal/catalog"
)

// NewSupplierCommand creates the supplier command family.
func NewSupplierCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supplier",
		Short: "Manage suppliers",
	}

	cmd.AddCommand(newSupplierAddCommand(rootOpts))
	cmd.AddCommand(newSupplierListCommand(rootOpts))
	cmd.AddCommand(newSupplierRemoveCommand(rootOpts))

	return cmd
}

func newSupplierAddCommand(rootOpts *RootOptions) *cobra.Command {
	var contact string

	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add or replace a supplier",
		Long: `Add or replace a supplier.

Example:
  despensa supplier add PRV1 "Granja Los Alamos" --contact 011-4555-1234`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSupplierAdd(rootOpts, args[0], args[1], contact, cmd)
		},
	}

	cmd.Flags().StringVar(&contact, "contact", "", "contact info (required)")
	_ = cmd.MarkFlagRequired("contact")

	return cmd
}

func runSupplierAdd(rootOpts *RootOptions, id, name, contact string, cmd *cobra.Command) error {
	sup, err := catalog.NewSupplier(id, name, contact)
	if err != nil {
		return domainExitError("invalid supplier", err)
	}

	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.suppliers.Upsert(sup); err != nil {
		return domainExitError("failed to save supplier", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("saved %s (%s)", sup.ID(), sup.Name())
	if f.JSON() {
		return f.Success(viewSupplier(sup))
	}
	return nil
}

func newSupplierListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List suppliers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSupplierList(rootOpts, cmd)
		},
	}
	return cmd
}

func runSupplierList(rootOpts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.suppliers.List()
	if err != nil {
		return domainExitError("failed to list suppliers", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	if f.JSON() {
		views := make([]supplierView, 0, len(all))
		for _, s := range all {
			views = append(views, viewSupplier(s))
		}
		return f.Success(views)
	}
	for _, s := range all {
		f.Textf("%s  %s  %s", s.ID(), s.Name(), s.Contact())
	}
	return nil
}

func newSupplierRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "remove <id>",
		Short:         "Remove a supplier",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSupplierRemove(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSupplierRemove(rootOpts *RootOptions, id string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.suppliers.Delete(id); err != nil {
		return domainExitError("failed to remove supplier", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("removed %s", id)
	if f.JSON() {
		return f.Success(map[string]string{"removed": id})
	}
	return nil
}
