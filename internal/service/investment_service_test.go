package service

import (
	"testing"
	"time"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/testutil"
)

func newInvestmentFixture(t *testing.T) (*InvestmentService, *testutil.MockPortfolioRepository, *testutil.MockAssetRepository) {
	t.Helper()
	portfolioRepo := testutil.NewMockPortfolioRepository()
	assetRepo := testutil.NewMockAssetRepository()
	return NewInvestmentService(portfolioRepo, assetRepo), portfolioRepo, assetRepo
}

func TestCreatePortfolio_Success(t *testing.T) {
	svc, _, _ := newInvestmentFixture(t)

	portfolio, err := svc.CreatePortfolio("  Retirement  ", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if portfolio.Name != "Retirement" {
		t.Errorf("Expected trimmed name 'Retirement', got %s", portfolio.Name)
	}
}

func TestCreatePortfolio_EmptyName(t *testing.T) {
	svc, _, _ := newInvestmentFixture(t)

	_, err := svc.CreatePortfolio("   ", nil)
	if err != domain.ErrNameRequired {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateAsset_Success(t *testing.T) {
	svc, portfolioRepo, _ := newInvestmentFixture(t)
	portfolioRepo.AddPortfolio(&domain.Portfolio{ID: 1, Name: "Main"})

	asset, err := svc.CreateAsset(CreateAssetInput{
		PortfolioID:   1,
		Symbol:        "vti",
		Name:          "Total Market ETF",
		AssetType:     domain.AssetTypeETF,
		Quantity:      dec("10"),
		PurchasePrice: dec("150"),
		Currency:      "usd",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if asset.Symbol != "VTI" {
		t.Errorf("Expected symbol normalized to VTI, got %s", asset.Symbol)
	}
	if asset.Currency != "USD" {
		t.Errorf("Expected currency normalized to USD, got %s", asset.Currency)
	}
	if asset.CurrentPrice != nil {
		t.Error("Expected no current price when none was given")
	}
}

func TestCreateAsset_UnknownPortfolio(t *testing.T) {
	svc, _, _ := newInvestmentFixture(t)

	_, err := svc.CreateAsset(CreateAssetInput{
		PortfolioID:   99,
		Symbol:        "VTI",
		Name:          "Total Market ETF",
		Quantity:      dec("1"),
		PurchasePrice: dec("100"),
	})
	if err != domain.ErrPortfolioNotFound {
		t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
	}
}

func TestCreateAsset_InvalidQuantity(t *testing.T) {
	svc, portfolioRepo, _ := newInvestmentFixture(t)
	portfolioRepo.AddPortfolio(&domain.Portfolio{ID: 1, Name: "Main"})

	_, err := svc.CreateAsset(CreateAssetInput{
		PortfolioID:   1,
		Symbol:        "VTI",
		Name:          "Total Market ETF",
		Quantity:      dec("0"),
		PurchasePrice: dec("100"),
	})
	if err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateAsset_InvalidType(t *testing.T) {
	svc, portfolioRepo, _ := newInvestmentFixture(t)
	portfolioRepo.AddPortfolio(&domain.Portfolio{ID: 1, Name: "Main"})

	_, err := svc.CreateAsset(CreateAssetInput{
		PortfolioID:   1,
		Symbol:        "XYZ",
		Name:          "Mystery",
		AssetType:     domain.AssetType("derivative"),
		Quantity:      dec("1"),
		PurchasePrice: dec("100"),
	})
	if err != domain.ErrInvalidInput {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestComputeAssetMetrics_WithPrice(t *testing.T) {
	svc, _, _ := newInvestmentFixture(t)

	asset := &domain.Asset{
		Quantity:      dec("10"),
		PurchasePrice: dec("150"),
		CurrentPrice:  decPtr("175"),
	}

	m := svc.ComputeAssetMetrics(asset)

	if m.TotalCost.StringFixed(2) != "1500.00" {
		t.Errorf("Expected cost 1500.00, got %s", m.TotalCost.StringFixed(2))
	}
	if m.CurrentValue == nil || m.CurrentValue.StringFixed(2) != "1750.00" {
		t.Errorf("Expected value 1750.00, got %v", m.CurrentValue)
	}
	if m.GainLoss == nil || m.GainLoss.StringFixed(2) != "250.00" {
		t.Errorf("Expected gain 250.00, got %v", m.GainLoss)
	}
	if m.GainLossPercent == nil || m.GainLossPercent.StringFixed(2) != "16.67" {
		t.Errorf("Expected gain percent 16.67, got %v", m.GainLossPercent)
	}
}

func TestComputeAssetMetrics_NoPrice(t *testing.T) {
	svc, _, _ := newInvestmentFixture(t)

	asset := &domain.Asset{
		Quantity:      dec("5"),
		PurchasePrice: dec("200"),
	}

	m := svc.ComputeAssetMetrics(asset)

	if m.TotalCost.StringFixed(2) != "1000.00" {
		t.Errorf("Expected cost 1000.00, got %s", m.TotalCost.StringFixed(2))
	}
	if m.CurrentValue != nil {
		t.Error("Expected current value to be undefined without a price")
	}
	if m.GainLoss != nil {
		t.Error("Expected gain/loss to be undefined without a price")
	}
	if m.GainLossPercent != nil {
		t.Error("Expected gain/loss percent to be undefined without a price")
	}
}

func TestComputeAssetMetrics_ZeroCost(t *testing.T) {
	svc, _, _ := newInvestmentFixture(t)

	// A grant or airdrop: priced, but acquired for nothing
	asset := &domain.Asset{
		Quantity:      dec("100"),
		PurchasePrice: dec("0"),
		CurrentPrice:  decPtr("3"),
	}

	m := svc.ComputeAssetMetrics(asset)

	if m.CurrentValue == nil || m.CurrentValue.StringFixed(2) != "300.00" {
		t.Errorf("Expected value 300.00, got %v", m.CurrentValue)
	}
	if m.GainLoss == nil || m.GainLoss.StringFixed(2) != "300.00" {
		t.Errorf("Expected gain 300.00, got %v", m.GainLoss)
	}
	if m.GainLossPercent != nil {
		t.Error("Expected gain/loss percent to be undefined at zero cost")
	}
}

func TestComputePortfolioTotals_MixedPricing(t *testing.T) {
	svc, _, _ := newInvestmentFixture(t)

	assets := []*domain.Asset{
		{Quantity: dec("10"), PurchasePrice: dec("150"), CurrentPrice: decPtr("175")},
		{Quantity: dec("5"), PurchasePrice: dec("200")}, // unpriced
	}

	totals := svc.ComputePortfolioTotals(assets)

	// Cost covers both assets, value only the priced one
	if totals.TotalCost.StringFixed(2) != "2500.00" {
		t.Errorf("Expected cost 2500.00, got %s", totals.TotalCost.StringFixed(2))
	}
	if totals.TotalValue.StringFixed(2) != "1750.00" {
		t.Errorf("Expected value 1750.00, got %s", totals.TotalValue.StringFixed(2))
	}
	if totals.GainLoss.StringFixed(2) != "250.00" {
		t.Errorf("Expected gain 250.00, got %s", totals.GainLoss.StringFixed(2))
	}
	if totals.AssetsCount != 2 || totals.PricedAssets != 1 {
		t.Errorf("Expected 2 assets with 1 priced, got %d/%d", totals.AssetsCount, totals.PricedAssets)
	}

	// Aggregate percent over the full cost basis: 250 / 2500
	if totals.GainLossPercent == nil {
		t.Fatal("Expected aggregate gain/loss percent to be defined")
	}
	if totals.GainLossPercent.StringFixed(2) != "10.00" {
		t.Errorf("Expected gain percent 10.00, got %s", totals.GainLossPercent.StringFixed(2))
	}
}

func TestComputePortfolioTotals_PercentUndefinedWhenUnpriced(t *testing.T) {
	svc, _, _ := newInvestmentFixture(t)

	assets := []*domain.Asset{
		{Quantity: dec("5"), PurchasePrice: dec("200")},
	}

	totals := svc.ComputePortfolioTotals(assets)

	if totals.GainLossPercent != nil {
		t.Error("Expected gain/loss percent to be undefined with no priced assets")
	}
}

func TestComputePortfolioTotals_PercentUndefinedAtZeroCost(t *testing.T) {
	svc, _, _ := newInvestmentFixture(t)

	// Free acquisition with a market price: gain is defined, percent is not
	assets := []*domain.Asset{
		{Quantity: dec("10"), PurchasePrice: dec("0"), CurrentPrice: decPtr("5")},
	}

	totals := svc.ComputePortfolioTotals(assets)

	if totals.GainLoss.StringFixed(2) != "50.00" {
		t.Errorf("Expected gain 50.00, got %s", totals.GainLoss.StringFixed(2))
	}
	if totals.GainLossPercent != nil {
		t.Error("Expected gain/loss percent to be undefined at zero cost")
	}
}

func TestUpdateAsset_SetCurrentPrice(t *testing.T) {
	svc, _, assetRepo := newInvestmentFixture(t)

	assetRepo.AddAsset(&domain.Asset{
		ID: 1, PortfolioID: 1, Symbol: "VTI", Name: "ETF",
		AssetType: domain.AssetTypeETF, Quantity: dec("10"),
		PurchasePrice: dec("150"), PurchaseDate: time.Now(), Currency: "USD",
	})

	asset, err := svc.UpdateAsset(1, &domain.UpdateAssetData{CurrentPrice: decPtr("175")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if asset.CurrentPrice == nil || asset.CurrentPrice.StringFixed(2) != "175.00" {
		t.Errorf("Expected current price 175.00, got %v", asset.CurrentPrice)
	}
}

func TestDeleteAsset_PublishesEvent(t *testing.T) {
	svc, _, assetRepo := newInvestmentFixture(t)
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)

	assetRepo.AddAsset(&domain.Asset{ID: 1, PortfolioID: 1, Symbol: "VTI", Name: "ETF", Quantity: dec("1"), PurchasePrice: dec("1"), Currency: "USD"})

	if err := svc.DeleteAsset(1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(publisher.Events) != 1 || publisher.Events[0].Type != "asset.deleted" {
		t.Error("Expected an asset.deleted event")
	}
}
