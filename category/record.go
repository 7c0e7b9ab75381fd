package category

// Type distinguishes ordinary categories from promotional ones.
type Type string

const (
	TypeMain  Type = "main"
	TypePromo Type = "promo"
)

// Record is a normalized category. All fields are populated.
type Record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	ParentID    string  `json:"parentId,omitempty"`
	IsActive    bool    `json:"isActive"`
	Order       float64 `json:"order"`
	Type        Type    `json:"type"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// IsRoot reports whether the record has no parent.
func (r Record) IsRoot() bool {
	return r.ParentID == ""
}

// IsPromo reports whether the record is a promotional category.
func (r Record) IsPromo() bool {
	return r.Type == TypePromo
}

// WireRecord is the shape a remote source returns. Optional fields are
// pointers so that absent and zero values can be told apart.
type WireRecord struct {
	ID          string   `json:"id"`
	LegacyID    string   `json:"_id,omitempty"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	ParentID    *string  `json:"parentId,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
	Order       *float64 `json:"order,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}
