package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type IncomeType string

const (
	IncomeTypeSalary      IncomeType = "salary"
	IncomeTypeFreelance   IncomeType = "freelance"
	IncomeTypeInvestments IncomeType = "investments"
	IncomeTypeRental      IncomeType = "rental"
	IncomeTypeBusiness    IncomeType = "business"
	IncomeTypeOther       IncomeType = "other"
)

// ValidIncomeType reports whether t is one of the known income types.
func ValidIncomeType(t IncomeType) bool {
	switch t {
	case IncomeTypeSalary, IncomeTypeFreelance, IncomeTypeInvestments,
		IncomeTypeRental, IncomeTypeBusiness, IncomeTypeOther:
		return true
	}
	return false
}

// Income is a recurring income stream. Amount is the gross figure when
// IsGross is set, otherwise it is already the take-home amount and
// TaxRate/OtherFees carry no meaning.
type Income struct {
	ID         int32            `json:"id"`
	Name       string           `json:"name"`
	Amount     decimal.Decimal  `json:"amount"`
	IncomeType IncomeType       `json:"incomeType"`
	IsActive   bool             `json:"isActive"`
	StartDate  *time.Time       `json:"startDate,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	Currency   string           `json:"currency"`
	IsGross    bool             `json:"isGross"`
	TaxRate    *decimal.Decimal `json:"taxRate,omitempty"`
	OtherFees  *decimal.Decimal `json:"otherFees,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

var oneHundred = decimal.NewFromInt(100)

// NetAmount returns the take-home amount after tax and fee deductions.
// TaxRate is a percentage in [0,100]; values outside that range are a
// caller input-validation concern. The result is floored at zero so a
// degenerate configuration where fees exceed gross never yields a
// negative income.
func (i *Income) NetAmount() decimal.Decimal {
	if !i.IsGross {
		return i.Amount
	}

	net := i.Amount
	if i.TaxRate != nil {
		net = net.Sub(i.Amount.Mul(i.TaxRate.Div(oneHundred)))
	}
	if i.OtherFees != nil {
		net = net.Sub(*i.OtherFees)
	}

	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

type PaginatedIncomes struct {
	Items      []*Income `json:"items"`
	TotalCount int64     `json:"totalCount"`
	HasMore    bool      `json:"hasMore"`
}

type UpdateIncomeData struct {
	Name       *string
	Amount     *decimal.Decimal
	IncomeType *IncomeType
	IsActive   *bool
	StartDate  *time.Time
	Notes      *string
	Currency   *string
	IsGross    *bool
	TaxRate    *decimal.Decimal
	OtherFees  *decimal.Decimal
}

type IncomeRepository interface {
	Create(income *Income) (*Income, error)
	GetByID(id int32) (*Income, error)
	List(isActive *bool, limit, offset int32) (*PaginatedIncomes, error)
	Update(id int32, data *UpdateIncomeData) (*Income, error)
	Delete(id int32) error
	GetActive() ([]*Income, error)
}
