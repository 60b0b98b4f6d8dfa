package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinedType(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		wantType string
		entity   EntityType
	}{
		{"expense created", ExpenseCreated(nil), "expense.created", EntityTypeExpense},
		{"expense updated", ExpenseUpdated(nil), "expense.updated", EntityTypeExpense},
		{"expense deleted", ExpenseDeleted(nil), "expense.deleted", EntityTypeExpense},
		{"category created", CategoryCreated(nil), "category.created", EntityTypeCategory},
		{"income updated", IncomeUpdated(nil), "income.updated", EntityTypeIncome},
		{"portfolio deleted", PortfolioDeleted(nil), "portfolio.deleted", EntityTypePortfolio},
		{"asset created", AssetCreated(nil), "asset.created", EntityTypeAsset},
		{"settings updated", SettingsUpdated(nil), "settings.updated", EntityTypeSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.event.Type)
			assert.Equal(t, tt.entity, tt.event.Entity)
			assert.False(t, tt.event.Timestamp.IsZero())
		})
	}
}

func TestEvent_ToJSON(t *testing.T) {
	evt := AssetUpdated(map[string]interface{}{"id": float64(7), "symbol": "VTI"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "asset.updated", decoded["type"])
	assert.Equal(t, "asset", decoded["entity"])
	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(7), payload["id"])
}
