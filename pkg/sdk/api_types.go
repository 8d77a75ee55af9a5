package sdk

import (
	"encoding/json"
	"time"
)

// Profile is the /api/analytics/profile/ payload. ProfileData differs per role and
// is left raw for the presentation layer.
type Profile struct {
	Role        Role            `json:"role"`
	ProfileData json.RawMessage `json:"profile_data"`
}

// Analysis is a role-specific analytics document.
type Analysis = json.RawMessage

// Plan is a subscription plan.
type Plan struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Tier         int    `json:"tier"`
	MaxStudents  int64  `json:"max_students"`
	PriceMonthly string `json:"price_monthly"`
	PriceYearly  string `json:"price_yearly"`
}

// Tier is a subscription tier.
type Tier struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// UsageInfo reports seat consumption of a subscription.
type UsageInfo struct {
	CurrentStudents   int64   `json:"current_students"`
	MaxStudents       int64   `json:"max_students"`
	StudentsRemaining int64   `json:"students_remaining"`
	UsagePercentage   float64 `json:"usage_percentage"`
}

// Subscription is the tenant's active subscription.
type Subscription struct {
	ID           int64      `json:"id"`
	Plan         Plan       `json:"plane_data"`
	Tier         Tier       `json:"tier_data"`
	BillingCycle string     `json:"billing_cycle"`
	Status       string     `json:"status"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	Usage        *UsageInfo `json:"get_usage_info,omitempty"`
}

// CreateSubscriptionInput selects a plan and billing cycle.
type CreateSubscriptionInput struct {
	PlanID       int64  `json:"plane_id"`
	BillingCycle string `json:"billing_cycle"`
}

// Member is a user of the tenant.
type Member struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Phone     *string   `json:"phone"`
}

// ListMembersInput filters the member listing.
type ListMembersInput struct {
	Role     Role
	Username string
}

// Invitation is an invite code for joining the tenant with a role.
type Invitation struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Role       string    `json:"role"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateInvitationsInput requests Count codes for Role.
type CreateInvitationsInput struct {
	Role  Role
	Count int
}

// listEnvelope accepts either a bare JSON array or a paginated {"results": [...]}.
type listEnvelope[T any] struct {
	Items []T
}

func (l *listEnvelope[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		l.Items = items
		return nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	l.Items = page.Results
	return nil
}

// oneOrMany accepts either a single object or an array of them.
type oneOrMany[T any] struct {
	Items []T
}

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		o.Items = items
		return nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	o.Items = []T{item}
	return nil
}
