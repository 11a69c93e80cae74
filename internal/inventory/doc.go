// Package inventory is the catalog-facing service: product CRUD, sale
// registration, sale history and the replenishment trigger.
//
// Sale registration is two-phase. Phase one aggregates the demand of
// every requested line (bundles flattened to their leaf ingredients,
// quantities summed per product) and checks it against current stock
// without mutating anything. Phase two deducts stock, composes the
// immutable sale record with unit prices snapshotted at that moment,
// appends it to the sale log and saves the touched products. A failed
// check leaves no trace.
package inventory
