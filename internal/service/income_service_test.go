package service

import (
	"errors"
	"testing"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/testutil"
)

func newIncomeFixture(t *testing.T) (*IncomeService, *testutil.MockIncomeRepository) {
	t.Helper()
	incomeRepo := testutil.NewMockIncomeRepository()
	return NewIncomeService(incomeRepo, NewCurrencyService()), incomeRepo
}

func TestCreateIncome_Success(t *testing.T) {
	svc, _ := newIncomeFixture(t)

	income, err := svc.CreateIncome(CreateIncomeInput{
		Name:       "Day job",
		Amount:     dec("5000"),
		IncomeType: domain.IncomeTypeSalary,
		Currency:   "usd",
		IsGross:    true,
		TaxRate:    decPtr("20"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if income.Currency != "USD" {
		t.Errorf("Expected currency normalized to USD, got %s", income.Currency)
	}
	if !income.IsActive {
		t.Error("Expected income to default to active")
	}
	if income.NetAmount().StringFixed(2) != "4000.00" {
		t.Errorf("Expected net 4000.00, got %s", income.NetAmount().StringFixed(2))
	}
}

func TestCreateIncome_DefaultsTypeAndCurrency(t *testing.T) {
	svc, _ := newIncomeFixture(t)

	income, err := svc.CreateIncome(CreateIncomeInput{
		Name:   "Side gig",
		Amount: dec("300"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if income.IncomeType != domain.IncomeTypeOther {
		t.Errorf("Expected type 'other', got %s", income.IncomeType)
	}
	if income.Currency != domain.DefaultMainCurrency {
		t.Errorf("Expected currency %s, got %s", domain.DefaultMainCurrency, income.Currency)
	}
}

func TestCreateIncome_InvalidAmount(t *testing.T) {
	svc, _ := newIncomeFixture(t)

	_, err := svc.CreateIncome(CreateIncomeInput{Name: "Bad", Amount: dec("0")})
	if err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateIncome_InvalidType(t *testing.T) {
	svc, _ := newIncomeFixture(t)

	_, err := svc.CreateIncome(CreateIncomeInput{
		Name:       "Bad",
		Amount:     dec("100"),
		IncomeType: domain.IncomeType("lottery"),
	})
	if err != domain.ErrInvalidInput {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateIncome_InvalidTaxRate(t *testing.T) {
	svc, _ := newIncomeFixture(t)

	for _, rate := range []string{"-1", "101"} {
		_, err := svc.CreateIncome(CreateIncomeInput{
			Name:    "Bad",
			Amount:  dec("100"),
			IsGross: true,
			TaxRate: decPtr(rate),
		})
		if err != domain.ErrInvalidInput {
			t.Errorf("tax rate %s: expected ErrInvalidInput, got %v", rate, err)
		}
	}
}

func TestCreateIncome_InvalidCurrency(t *testing.T) {
	svc, _ := newIncomeFixture(t)

	_, err := svc.CreateIncome(CreateIncomeInput{
		Name:     "Bad",
		Amount:   dec("100"),
		Currency: "DOLLARS",
	})
	if err != domain.ErrInvalidCurrency {
		t.Errorf("Expected ErrInvalidCurrency, got %v", err)
	}
}

func TestUpdateIncome_Deactivate(t *testing.T) {
	svc, repo := newIncomeFixture(t)

	repo.AddIncome(&domain.Income{ID: 1, Name: "Job", Amount: dec("5000"), IncomeType: domain.IncomeTypeSalary, IsActive: true, Currency: "USD"})

	inactive := false
	income, err := svc.UpdateIncome(1, &domain.UpdateIncomeData{IsActive: &inactive})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if income.IsActive {
		t.Error("Expected income to be deactivated")
	}
}

func TestDeleteIncome_NotFound(t *testing.T) {
	svc, _ := newIncomeFixture(t)

	if err := svc.DeleteIncome(42); err != domain.ErrIncomeNotFound {
		t.Errorf("Expected ErrIncomeNotFound, got %v", err)
	}
}

func TestTotalMonthlyIncome_ConvertsAndSums(t *testing.T) {
	svc, repo := newIncomeFixture(t)

	// 3000 EUR at 0.9 EUR per USD converts to 3333.33 USD
	repo.AddIncome(&domain.Income{ID: 1, Name: "EU contract", Amount: dec("3000"), IncomeType: domain.IncomeTypeFreelance, IsActive: true, Currency: "EUR"})
	repo.AddIncome(&domain.Income{ID: 2, Name: "Job", Amount: dec("5000"), IncomeType: domain.IncomeTypeSalary, IsActive: true, Currency: "USD"})
	// Inactive streams do not contribute
	repo.AddIncome(&domain.Income{ID: 3, Name: "Old gig", Amount: dec("9999"), IncomeType: domain.IncomeTypeOther, IsActive: false, Currency: "USD"})

	total, err := svc.TotalMonthlyIncome(usdTable(), "USD")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if total.Total.StringFixed(2) != "8333.33" {
		t.Errorf("Expected total 8333.33, got %s", total.Total.StringFixed(2))
	}
	if total.StreamsCount != 2 {
		t.Errorf("Expected 2 streams, got %d", total.StreamsCount)
	}
}

func TestTotalMonthlyIncome_UsesNetAmounts(t *testing.T) {
	svc, repo := newIncomeFixture(t)

	repo.AddIncome(&domain.Income{
		ID: 1, Name: "Gross job", Amount: dec("5000"),
		IncomeType: domain.IncomeTypeSalary, IsActive: true, Currency: "USD",
		IsGross: true, TaxRate: decPtr("20"), OtherFees: decPtr("100"),
	})

	total, err := svc.TotalMonthlyIncome(usdTable(), "USD")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if total.Total.StringFixed(2) != "3900.00" {
		t.Errorf("Expected net total 3900.00, got %s", total.Total.StringFixed(2))
	}
}

func TestTotalMonthlyIncome_MissingRateFails(t *testing.T) {
	svc, repo := newIncomeFixture(t)

	repo.AddIncome(&domain.Income{ID: 1, Name: "UK gig", Amount: dec("1000"), IncomeType: domain.IncomeTypeFreelance, IsActive: true, Currency: "GBP"})

	_, err := svc.TotalMonthlyIncome(usdTable(), "USD")
	if !errors.Is(err, domain.ErrRateNotFound) {
		t.Errorf("Expected ErrRateNotFound, got %v", err)
	}
}
