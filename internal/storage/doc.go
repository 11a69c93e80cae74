// Package storage provides the flat-file entity stores.
//
// Every store keeps one entity kind in a ';'-delimited text file with a
// fixed header row, using the codec package for field escaping. Two store
// shapes exist:
//
//   - Rewrite stores (products, suppliers): Upsert reads the full set,
//     drops any record with the same id and rewrites the whole file, so
//     upsert is idempotent per id. Delete of a missing id is a no-op.
//   - Append-only logs (sales, order details): records are only ever
//     appended. Delete fails with ErrUnsupported. Detail idempotency is
//     caller-enforced via a pre-scan, not store-enforced.
//
// Entities whose header and detail records live in separate files (sales,
// orders) are returned as raw header and detail rows; re-resolving foreign
// references against live stores happens at the service layer, not here.
//
// # Atomicity
//
// There are no transactions and no multi-file atomicity. A failed rewrite
// can leave a partially-written file and a failed two-file append can
// leave the pair out of step; both are accepted risks of the format, not
// hidden. None of the stores is safe for concurrent use: the design
// assumes a single actor drives all mutations.
package storage
