// Package procurement manages replenishment orders against suppliers.
//
// The service is the only place order state transitions are persisted
// and the only code path that increments product stock: receiving a
// sent order restocks each ordered product and saves it. Orders load
// hydrated, with supplier and product references resolved against the
// live stores; references that no longer resolve come back as
// placeholders so listings never fail, and placeholder products are
// skipped (with a warning) when stock is applied.
package procurement
