package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/despensa/despensa/internal/procurement"
)

// NewOrderCommand creates the order command family.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage replenishment orders",
	}

	cmd.AddCommand(newOrderCreateCommand(rootOpts))
	cmd.AddCommand(newOrderAddCommand(rootOpts))
	cmd.AddCommand(newOrderSendCommand(rootOpts))
	cmd.AddCommand(newOrderReceiveCommand(rootOpts))
	cmd.AddCommand(newOrderSendAllCommand(rootOpts))
	cmd.AddCommand(newOrderReceiveAllCommand(rootOpts))
	cmd.AddCommand(newOrderListCommand(rootOpts))
	cmd.AddCommand(newOrderShowCommand(rootOpts))

	return cmd
}

func newOrderCreateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "create <supplier-id>",
		Short:         "Open a new pending order for a supplier",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderCreate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runOrderCreate(rootOpts *RootOptions, supplierID string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	ord, err := a.procurement.Create(supplierID)
	if err != nil {
		return domainExitError("failed to create order", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("order %s created for %s", ord.ID(), supplierID)
	if f.JSON() {
		return f.Success(viewOrder(ord))
	}
	return nil
}

func newOrderAddCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "add <order-id> <product-id> <qty>",
		Short:         "Add an item to a pending order",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[2])
			if err != nil {
				return WrapExitError(ExitCommandError, "quantity must be a number", err)
			}
			return runOrderAdd(rootOpts, args[0], args[1], qty, cmd)
		},
	}
	return cmd
}

func runOrderAdd(rootOpts *RootOptions, orderID, productID string, qty int, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.procurement.AddItem(orderID, productID, qty); err != nil {
		return domainExitError("failed to add item", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("added %s x%d to %s", productID, qty, orderID)
	if f.JSON() {
		return f.Success(map[string]any{"order_id": orderID, "product_id": productID, "qty": qty})
	}
	return nil
}

func newOrderSendCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "send <order-id>",
		Short:         "Send a pending order to its supplier",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderTransition(rootOpts, args[0], "sent", cmd)
		},
	}
	return cmd
}

func newOrderReceiveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "receive <order-id>",
		Short:         "Receive a sent order and restock its products",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderTransition(rootOpts, args[0], "received", cmd)
		},
	}
	return cmd
}

func runOrderTransition(rootOpts *RootOptions, orderID, verb string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	if verb == "sent" {
		err = a.procurement.Send(orderID)
	} else {
		err = a.procurement.Receive(orderID)
	}
	if err != nil {
		return domainExitError("failed to mark order "+verb, err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	f.Textf("order %s %s", orderID, verb)
	if f.JSON() {
		ord, err := a.procurement.Get(orderID)
		if err != nil {
			return domainExitError("failed to reload order", err)
		}
		return f.Success(viewOrder(ord))
	}
	return nil
}

type bulkResultView struct {
	Done     int               `json:"done"`
	Failures map[string]string `json:"failures,omitempty"`
}

func newOrderSendAllCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "send-all",
		Short:         "Send every pending order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderBulk(rootOpts, "sent", cmd)
		},
	}
	return cmd
}

func newOrderReceiveAllCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "receive-all",
		Short:         "Receive every sent order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderBulk(rootOpts, "received", cmd)
		},
	}
	return cmd
}

func runOrderBulk(rootOpts *RootOptions, verb string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	var done int
	var failures map[string]string
	if verb == "sent" {
		n, fs := a.procurement.SendAll()
		done = n
		failures = failureMap(fs)
	} else {
		n, fs := a.procurement.ReceiveAll()
		done = n
		failures = failureMap(fs)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	if f.JSON() {
		return f.Success(bulkResultView{Done: done, Failures: failures})
	}
	f.Textf("%d orders %s", done, verb)
	for id, msg := range failures {
		f.Textf("  %s failed: %s", id, msg)
	}
	return nil
}

func failureMap(failures []procurement.BulkFailure) map[string]string {
	if len(failures) == 0 {
		return nil
	}
	out := make(map[string]string, len(failures))
	for _, bf := range failures {
		out[bf.OrderID] = bf.Err.Error()
	}
	return out
}

func newOrderListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List all orders",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderList(rootOpts, cmd)
		},
	}
	return cmd
}

func runOrderList(rootOpts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.procurement.List()
	if err != nil {
		return domainExitError("failed to list orders", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	if f.JSON() {
		views := make([]orderView, 0, len(all))
		for _, o := range all {
			views = append(views, viewOrder(o))
		}
		return f.Success(views)
	}
	for _, o := range all {
		f.Textf("%s  %s  %s  %d items", o.ID(), o.Supplier().ID(), o.Status(), len(o.Items()))
	}
	return nil
}

func newOrderShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <order-id>",
		Short:         "Show one order with its items",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderShow(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runOrderShow(rootOpts *RootOptions, orderID string, cmd *cobra.Command) error {
	a, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Close()

	ord, err := a.procurement.Get(orderID)
	if err != nil {
		return domainExitError("order not found", err)
	}

	f := NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout(), rootOpts.Verbose)
	if f.JSON() {
		return f.Success(viewOrder(ord))
	}
	f.Textf("%s  supplier %s (%s)  %s", ord.ID(), ord.Supplier().ID(), ord.Supplier().Name(), ord.Status())
	for _, it := range ord.Items() {
		f.Textf("  %s x%d", it.Product().ID(), it.Qty())
	}
	return nil
}
