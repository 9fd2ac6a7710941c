package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Currency  string `binding:"omitempty,iso4217"`
	Type      string `binding:"omitempty,transaction_type"`
	Period    string `binding:"omitempty,budget_period"`
	Timeframe string `binding:"omitempty,timeframe"`
	Category  string `binding:"omitempty,notblank"`
}

func init() {
	Register()
}

func validate(s sample) error {
	return binding.Validator.ValidateStruct(s)
}

func TestCustomValidators(t *testing.T) {
	assert.NoError(t, validate(sample{Currency: "EUR", Type: "expense", Period: "monthly", Timeframe: "week", Category: "Food"}))

	tests := []struct {
		name  string
		input sample
		tag   string
	}{
		{"unknown_currency", sample{Currency: "XYZ"}, "iso4217"},
		{"lowercase_currency", sample{Currency: "usd"}, "iso4217"},
		{"transfer_type", sample{Type: "transfer"}, "transaction_type"},
		{"daily_period", sample{Period: "daily"}, "budget_period"},
		{"quarter_timeframe", sample{Timeframe: "quarter"}, "timeframe"},
		{"blank_category", sample{Category: "   "}, "notblank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.input)
			var verrs validator.ValidationErrors
			if assert.ErrorAs(t, err, &verrs) {
				assert.Equal(t, tt.tag, verrs[0].Tag())
			}
		})
	}
}

func TestIsCurrency(t *testing.T) {
	assert.True(t, IsCurrency("MYR"))
	assert.False(t, IsCurrency(""))
}
