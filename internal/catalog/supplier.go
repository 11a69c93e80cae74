package catalog

import "strings"

// Supplier is an immutable supplier record.
type Supplier struct {
	id      string
	name    string
	contact string

	placeholder bool
}

// NewSupplier creates a supplier. All fields are required and non-blank.
func NewSupplier(id, name, contact string) (*Supplier, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errBlank("supplier id")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errBlank("supplier name")
	}
	if strings.TrimSpace(contact) == "" {
		return nil, errBlank("supplier contact")
	}
	return &Supplier{id: id, name: name, contact: contact}, nil
}

// PlaceholderSupplier creates a stand-in for a supplier reference that
// could not be resolved against live storage.
func PlaceholderSupplier(id string) *Supplier {
	return &Supplier{id: id, name: "N/D", contact: "N/D", placeholder: true}
}

// ID returns the supplier identifier.
func (s *Supplier) ID() string { return s.id }

// Name returns the supplier name.
func (s *Supplier) Name() string { return s.name }

// Contact returns the supplier contact information.
func (s *Supplier) Contact() string { return s.contact }

// Placeholder reports whether this supplier is a hydration stand-in.
func (s *Supplier) Placeholder() bool { return s.placeholder }
