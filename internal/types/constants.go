package types

const (
	ContextUserKey      = "user"
	ContextRequestIDKey = "request_id"

	RequestIDHeader = "X-Request-ID"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleFarmer Role = "farmer"
)

// ParseRole accepts only the roles a user can log in as.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleFarmer:
		return Role(s), true
	}
	return "", false
}

const (
	CategorySeeds       = "Seeds"
	CategoryFertilizers = "Fertilizers"
	CategoryPesticides  = "Pesticides"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
	LoanPaid     LoanStatus = "paid"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)
