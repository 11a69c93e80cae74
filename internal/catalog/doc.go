// Package catalog defines the product and supplier model.
//
// A Product is a tagged union with two kinds:
//
//   - Ingredient: holds its own stock count, a unit of measure and a unit
//     cost. Its price is the unit cost.
//   - Bundle: holds no stock of its own. It references component products
//     with per-component quantities; its price and availability derive
//     recursively from those components.
//
// Stock never goes negative. Multi-product deductions go through a Demand,
// which accumulates per-product requirements (flattening bundles down to
// their leaf ingredients, merge-summed across repeated references) and then
// either fully applies or fully rejects the whole set. Product.Deduct on a
// bundle is the single-product case of the same two-phase contract.
package catalog
