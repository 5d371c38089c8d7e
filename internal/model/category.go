package model

// SubCategory is a nested refinement of a Category. Transactions and splits
// may reference a sub-category id directly in their CategoryID field.
type SubCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category classifies transactions. Type matches the transaction types the
// category applies to (INCOME, EXPENSE, INVESTMENT, DEBT).
type Category struct {
	ID            string          `json:"id"`
	Rev           string          `json:"rev"`
	HouseholdID   string          `json:"householdId"`
	Name          string          `json:"name"`
	Type          TransactionType `json:"type"`
	Color         string          `json:"color,omitempty"`
	SubCategories []SubCategory   `json:"subCategories,omitempty"`
}

// HasSubCategory reports whether id names one of the category's sub-categories.
func (c Category) HasSubCategory(id string) bool {
	for _, sc := range c.SubCategories {
		if sc.ID == id {
			return true
		}
	}
	return false
}
