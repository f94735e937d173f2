package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// IntervalUnit represents a recurring billing interval unit
type IntervalUnit string

const (
	IntervalDay   IntervalUnit = "DAY"
	IntervalWeek  IntervalUnit = "WEEK"
	IntervalMonth IntervalUnit = "MONTH"
	IntervalYear  IntervalUnit = "YEAR"
)

// IsValid checks if the unit is a valid IntervalUnit
func (u IntervalUnit) IsValid() bool {
	switch u {
	case IntervalDay, IntervalWeek, IntervalMonth, IntervalYear:
		return true
	}
	return false
}

// String returns the string representation of IntervalUnit
func (u IntervalUnit) String() string {
	return string(u)
}

// AddTo returns t advanced by count intervals. Month and year
// additions are calendar-aware (a one-month interval in a 31-day
// month spans 31 days).
func (u IntervalUnit) AddTo(t time.Time, count int) time.Time {
	switch u {
	case IntervalDay:
		return t.AddDate(0, 0, count)
	case IntervalWeek:
		return t.AddDate(0, 0, 7*count)
	case IntervalMonth:
		return t.AddDate(0, count, 0)
	case IntervalYear:
		return t.AddDate(count, 0, 0)
	}
	return t
}

// PlanType distinguishes flat recurring plans from metered ones
type PlanType string

const (
	PlanTypeFlatRate   PlanType = "FLAT_RATE"
	PlanTypeUsageBased PlanType = "USAGE_BASED"
)

// IsValid checks if the type is a valid PlanType
func (t PlanType) IsValid() bool {
	return t == PlanTypeFlatRate || t == PlanTypeUsageBased
}

// PriceType represents how a plan price is computed
type PriceType string

const (
	PriceTypeFlat    PriceType = "FLAT"
	PriceTypeTiered  PriceType = "TIERED"
	PriceTypePerUnit PriceType = "PER_UNIT"
)

// IsValid checks if the type is a valid PriceType
func (t PriceType) IsValid() bool {
	switch t {
	case PriceTypeFlat, PriceTypeTiered, PriceTypePerUnit:
		return true
	}
	return false
}

// PriceTier is one step of a tiered usage price. UpTo of -1 marks the
// unbounded final tier.
type PriceTier struct {
	UpTo       int64 `json:"up_to"`
	UnitAmount int64 `json:"unit_amount"`
	FlatAmount int64 `json:"flat_amount"`
}

// PriceTiers is the serializable tier list stored on a price row
type PriceTiers []PriceTier

// Value implements driver.Valuer for JSON column storage
func (t PriceTiers) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner
func (t *PriceTiers) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		if s, isStr := src.(string); isStr {
			b = []byte(s)
		} else {
			return errors.New("price tiers: unsupported scan source")
		}
	}
	return json.Unmarshal(b, t)
}

// PlanPrice is the price of a plan in one currency, in minor units.
// Immutable once a live subscription has snapshotted it.
type PlanPrice struct {
	ID           uuid.UUID            `gorm:"type:uuid;primaryKey"`
	PlanID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency     valueobject.Currency `gorm:"size:3;not null"`
	Price        int64                `gorm:"not null"`
	PriceType    PriceType            `gorm:"size:20;not null;default:'FLAT'"`
	PricePerUnit int64
	Tiers        PriceTiers `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the plan price model
func (PlanPrice) TableName() string {
	return "plan_prices"
}

// Money returns the flat price as a Money value
func (p *PlanPrice) Money() valueobject.Money {
	return valueobject.MustNewMoney(p.Price, p.Currency)
}

// PlanProviderMapping maps a plan to its external id at one payment provider
type PlanProviderMapping struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlanID       uuid.UUID `gorm:"type:uuid;not null;index:idx_plan_provider,unique"`
	ProviderSlug string    `gorm:"size:50;not null;index:idx_plan_provider,unique"`
	ExternalID   string    `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the provider mapping model
func (PlanProviderMapping) TableName() string {
	return "plan_provider_mappings"
}

// Plan is a recurring subscription plan belonging to a product
type Plan struct {
	shared.BaseEntity
	ProductID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name               string    `gorm:"size:255;not null"`
	Slug               string    `gorm:"size:100;not null;uniqueIndex"`
	Description        string
	Type               PlanType     `gorm:"size:20;not null;default:'FLAT_RATE'"`
	IsActive           bool         `gorm:"not null;default:true"`
	IntervalUnit       IntervalUnit `gorm:"size:10;not null"`
	IntervalCount      int          `gorm:"not null;default:1"`
	HasTrial           bool         `gorm:"not null;default:false"`
	TrialIntervalUnit  IntervalUnit `gorm:"size:10"`
	TrialIntervalCount int
	Prices             []PlanPrice           `gorm:"foreignKey:PlanID"`
	ProviderMappings   []PlanProviderMapping `gorm:"foreignKey:PlanID"`
}

// TableName returns the table name for the plan model
func (Plan) TableName() string {
	return "plans"
}

// NewPlan creates a new plan
func NewPlan(productID uuid.UUID, name, slug string, planType PlanType, intervalUnit IntervalUnit, intervalCount int) (*Plan, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Plan name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Plan slug cannot be empty")
	}
	if !planType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN_TYPE", "Invalid plan type")
	}
	if !intervalUnit.IsValid() {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Invalid billing interval unit")
	}
	if intervalCount <= 0 {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Interval count must be positive")
	}

	return &Plan{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		Name:          name,
		Slug:          slug,
		Type:          planType,
		IsActive:      true,
		IntervalUnit:  intervalUnit,
		IntervalCount: intervalCount,
	}, nil
}

// WithTrial enables a trial window on the plan
func (p *Plan) WithTrial(unit IntervalUnit, count int) error {
	if !unit.IsValid() {
		return shared.NewDomainError("INVALID_INTERVAL", "Invalid trial interval unit")
	}
	if count <= 0 {
		return shared.NewDomainError("INVALID_INTERVAL", "Trial interval count must be positive")
	}
	p.HasTrial = true
	p.TrialIntervalUnit = unit
	p.TrialIntervalCount = count
	p.UpdatedAt = time.Now()
	return nil
}

// IsUsageBased returns true for metered plans
func (p *Plan) IsUsageBased() bool {
	return p.Type == PlanTypeUsageBased
}

// IsChangeable returns true if a subscription on this plan may switch
// to another plan. Usage-based plans are never changeable.
func (p *Plan) IsChangeable() bool {
	return !p.IsUsageBased()
}

// PriceFor returns the price row for the given currency
func (p *Plan) PriceFor(currency valueobject.Currency) (*PlanPrice, error) {
	for i := range p.Prices {
		if p.Prices[i].Currency == currency {
			return &p.Prices[i], nil
		}
	}
	return nil, shared.ErrPriceNotFound
}

// ProviderExternalID returns the external id for a provider, if mapped
func (p *Plan) ProviderExternalID(providerSlug string) (string, bool) {
	for i := range p.ProviderMappings {
		if p.ProviderMappings[i].ProviderSlug == providerSlug {
			return p.ProviderMappings[i].ExternalID, true
		}
	}
	return "", false
}
