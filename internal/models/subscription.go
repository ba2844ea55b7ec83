package models

import (
	"encoding/json"
	"time"
)

// Agreement status values of a subscription record.
const (
	AgreementAgreed  = "Agreed"
	AgreementRefused = "Refused"
)

// Payment status values of a subscription record.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

// DateLayout is the wire format of subscription dates.
const DateLayout = "2006-01-02"

// Subscription is the central record of the system: one household signing up
// for (or refusing) a package, pinned to a validated district/sector/cell
// triple within Kigali.
type Subscription struct {
	UID                 string    `json:"uid"`
	PhoneNumber         string    `json:"phone_number"`
	Email               string    `json:"email"`
	ChildName           string    `json:"child_name"`
	ParentName          string    `json:"parent_name"`
	AgreedRefused       string    `json:"agreed_refused"`
	Package             string    `json:"package"` // free-text reference to a Package name
	DateOfSubscription  time.Time `json:"-"`
	RenewSubscriptionBy time.Time `json:"-"` // derived, never set by clients
	PaymentStatus       string    `json:"payment_status"`
	Area                string    `json:"area"`     // Kigali district
	Location            string    `json:"location"` // sector within the district
	Cell                string    `json:"cell,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// MarshalJSON renders the two business dates in the YYYY-MM-DD wire format.
func (s Subscription) MarshalJSON() ([]byte, error) {
	type plain Subscription // shed methods to avoid recursion
	return json.Marshal(struct {
		plain
		DateOfSubscription  string `json:"date_of_subscription"`
		RenewSubscriptionBy string `json:"renew_subscription_by"`
	}{
		plain:               plain(s),
		DateOfSubscription:  s.DateOfSubscription.Format(DateLayout),
		RenewSubscriptionBy: s.RenewSubscriptionBy.Format(DateLayout),
	})
}

// DummySubscription receives subscription data from a JSON request. Dates
// arrive as strings so they can be parsed and validated explicitly; the
// agreement and payment enums are checked in the service layer so that the
// error carries the allowed values.
type DummySubscription struct {
	PhoneNumber        string `json:"phone_number" validate:"required,min=7,max=20"`
	Email              string `json:"email" validate:"required,email"`
	ChildName          string `json:"child_name" validate:"required"`
	ParentName         string `json:"parent_name" validate:"required"`
	AgreedRefused      string `json:"agreed_refused" validate:"required"`
	Package            string `json:"package" validate:"required"`
	DateOfSubscription string `json:"date_of_subscription" validate:"required"`
	PaymentStatus      string `json:"payment_status,omitempty"`
	Area               string `json:"area" validate:"required"`
	Location           string `json:"location" validate:"required"`
	Cell               string `json:"cell,omitempty"`
}

// DummySubscriptionPatch receives a partial update from a JSON request.
// Absent fields stay untouched; geography fields are merged with the stored
// record before re-validation.
type DummySubscriptionPatch struct {
	PhoneNumber        *string `json:"phone_number,omitempty" validate:"omitempty,min=7,max=20"`
	Email              *string `json:"email,omitempty" validate:"omitempty,email"`
	ChildName          *string `json:"child_name,omitempty"`
	ParentName         *string `json:"parent_name,omitempty"`
	AgreedRefused      *string `json:"agreed_refused,omitempty"`
	Package            *string `json:"package,omitempty"`
	DateOfSubscription *string `json:"date_of_subscription,omitempty"`
	PaymentStatus      *string `json:"payment_status,omitempty"`
	Area               *string `json:"area,omitempty"`
	Location           *string `json:"location,omitempty"`
	Cell               *string `json:"cell,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p DummySubscriptionPatch) IsEmpty() bool {
	return p.PhoneNumber == nil && p.Email == nil && p.ChildName == nil &&
		p.ParentName == nil && p.AgreedRefused == nil && p.Package == nil &&
		p.DateOfSubscription == nil && p.PaymentStatus == nil &&
		p.Area == nil && p.Location == nil && p.Cell == nil
}

// SubscriptionUpdate is the storage-level partial update with dates already
// parsed and validated. Only non-nil fields are applied.
type SubscriptionUpdate struct {
	PhoneNumber         *string
	Email               *string
	ChildName           *string
	ParentName          *string
	AgreedRefused       *string
	Package             *string
	DateOfSubscription  *time.Time
	RenewSubscriptionBy *time.Time
	PaymentStatus       *string
	Area                *string
	Location            *string
	Cell                *string
}

// SubscriptionFilter is an exact-match conjunction over optional fields,
// applied on top of the forced is_active = true predicate unless
// IncludeInactive is set.
type SubscriptionFilter struct {
	AgreedRefused   *string
	PaymentStatus   *string
	Area            *string
	Package         *string
	IncludeInactive bool
}

// SubscriptionPage is a paginated slice of subscriptions.
type SubscriptionPage struct {
	Subscriptions []*Subscription `json:"subscriptions"`
	Total         int             `json:"total"`
	Page          int             `json:"page"`
	PerPage       int             `json:"per_page"`
	TotalPages    int             `json:"total_pages"`
}

// BulkUpdateResult reports the outcome of one record within a bulk update.
// Partial failures never abort the batch.
type BulkUpdateResult struct {
	UID     string `json:"uid"`
	Updated int    `json:"updated"`
	Error   string `json:"error,omitempty"`
}
