package model

// BudgetCategories categories offered when adding an item
var BudgetCategories = []string{
	"Furniture",
	"Decor",
	"Lighting",
	"Flooring",
	"Paint",
	"Textiles",
	"Fixtures",
	"Appliances",
	"Services",
	"Other",
}

const (
	DefaultBudgetPlanName = "New Budget Plan"
	DefaultTotalBudget    = 10000
)

// BudgetItem one line in a plan
type BudgetItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	EstimatedCost float64  `json:"estimatedCost"`
	ActualCost    *float64 `json:"actualCost,omitempty"`
}

// BudgetPlan named plan stored under budgetPlans
type BudgetPlan struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	TotalBudget float64      `json:"totalBudget"`
	Items       []BudgetItem `json:"items"`
}

// CategorySpend estimated spend in one category
type CategorySpend struct {
	Category string  `json:"name"`
	Amount   float64 `json:"value"`
}

// BudgetSummary figures shown next to a plan
type BudgetSummary struct {
	TotalBudget    float64         `json:"totalBudget"`
	TotalEstimated float64         `json:"totalEstimated"`
	TotalActual    float64         `json:"totalActual"`
	Remaining      float64         `json:"remaining"`
	PercentUsed    float64         `json:"percentUsed"`
	ByCategory     []CategorySpend `json:"byCategory"`
}
