package storage

import (
	"github.com/despensa/despensa/internal/catalog"
	"github.com/despensa/despensa/internal/codec"
)

const assignmentHeader = "productId;supplierId"

// Assignments is the product-to-supplier side mapping consulted by the
// auto-replenishment trigger. One row per product; re-assigning a product
// is last-write-wins. The mapping is loaded best-effort: a missing or
// unreadable file degrades to an empty mapping instead of failing, and
// mutations persist the whole file.
type Assignments struct {
	path  string
	order []string
	byPID map[string]string
}

// NewAssignments opens the assignment mapping at path. Load failures are
// swallowed: the mapping starts empty and the first successful mutation
// recreates the file.
func NewAssignments(path string) *Assignments {
	a := &Assignments{path: path, byPID: make(map[string]string)}
	rows, err := readRecords(path)
	if err != nil {
		return a
	}
	for _, c := range rows {
		if len(c) < 2 || c[0] == "" || c[1] == "" {
			continue
		}
		a.set(c[0], c[1])
	}
	return a
}

func (a *Assignments) set(productID, supplierID string) {
	if _, ok := a.byPID[productID]; !ok {
		a.order = append(a.order, productID)
	}
	a.byPID[productID] = supplierID
}

// SupplierOf returns the supplier configured for a product, if any.
func (a *Assignments) SupplierOf(productID string) (string, bool) {
	sid, ok := a.byPID[productID]
	return sid, ok
}

// Assign associates a product with a supplier, overwriting any previous
// association, and persists the mapping.
func (a *Assignments) Assign(productID, supplierID string) error {
	if productID == "" || supplierID == "" {
		return &catalog.ValidationError{Field: "assignment", Reason: "product and supplier ids must not be blank"}
	}
	a.set(productID, supplierID)
	return a.persist()
}

// Unassign removes any association for the product and persists if one
// was removed. Unknown product id is a no-op.
func (a *Assignments) Unassign(productID string) error {
	if _, ok := a.byPID[productID]; !ok {
		return nil
	}
	delete(a.byPID, productID)
	for i, pid := range a.order {
		if pid == productID {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return a.persist()
}

// All returns every (productID, supplierID) pair in insertion order.
func (a *Assignments) All() [][2]string {
	out := make([][2]string, 0, len(a.order))
	for _, pid := range a.order {
		out = append(out, [2]string{pid, a.byPID[pid]})
	}
	return out
}

func (a *Assignments) persist() error {
	lines := make([]string, 0, len(a.order))
	for _, pid := range a.order {
		lines = append(lines, codec.Join(pid, a.byPID[pid]))
	}
	if err := initFile(a.path, assignmentHeader); err != nil {
		return err
	}
	return writeAll(a.path, assignmentHeader, lines)
}
