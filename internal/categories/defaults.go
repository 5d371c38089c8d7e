package categories

import "github.com/gharkhata/gharkhata/internal/model"

// DefaultCategories returns the seed category set for a new household.
func DefaultCategories() []model.Category {
	return []model.Category{
		{Name: "Salary", Type: model.TypeIncome, Color: "#2e7d32"},
		{Name: "Interest & Dividends", Type: model.TypeIncome, Color: "#388e3c"},
		{Name: "Groceries", Type: model.TypeExpense, Color: "#ef6c00", SubCategories: []model.SubCategory{
			{ID: "groceries-staples", Name: "Staples"},
			{ID: "groceries-vegetables", Name: "Vegetables & Fruit"},
		}},
		{Name: "Rent & Utilities", Type: model.TypeExpense, Color: "#6d4c41", SubCategories: []model.SubCategory{
			{ID: "utilities-electricity", Name: "Electricity"},
			{ID: "utilities-water", Name: "Water"},
			{ID: "utilities-internet", Name: "Internet"},
		}},
		{Name: "Transport", Type: model.TypeExpense, Color: "#0277bd"},
		{Name: "Dining Out", Type: model.TypeExpense, Color: "#c62828"},
		{Name: "Health", Type: model.TypeExpense, Color: "#00838f"},
		{Name: "Entertainment", Type: model.TypeExpense, Color: "#7b1fa2"},
		{Name: "Mutual Funds", Type: model.TypeInvestment, Color: "#283593"},
		{Name: "Fixed Deposit", Type: model.TypeInvestment, Color: "#1565c0"},
		{Name: "Loan EMI", Type: model.TypeDebt, Color: "#4e342e"},
		{Name: "Credit Card Payment", Type: model.TypeDebt, Color: "#37474f"},
	}
}
