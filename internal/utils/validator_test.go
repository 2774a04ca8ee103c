// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderFields struct {
	Phone    string `validate:"required,tn_phone"`
	Governor string `validate:"required,governorate"`
	City     string `validate:"required"`
	Pack     int    `validate:"required,pack"`
	Status   string `validate:"omitempty,order_status"`
}

func TestTunisianPhoneValidation(t *testing.T) {
	valid := orderFields{Phone: "98123456", Governor: "Tunis", City: "Tunis", Pack: 1}
	assert.NoError(t, ValidateStruct(&valid))

	for _, phone := range []string{"1234567", "123456789", "98 12 34 56", "abcdefgh", "+21698123456"} {
		invalid := valid
		invalid.Phone = phone
		assert.Error(t, ValidateStruct(&invalid), "phone %q should be rejected", phone)
	}
}

func TestGovernorateValidation(t *testing.T) {
	base := orderFields{Phone: "98123456", Governor: "Monastir", City: "Sahline", Pack: 2}
	assert.NoError(t, ValidateStruct(&base))

	base.Governor = "Atlantis"
	assert.Error(t, ValidateStruct(&base))
}

func TestPackValidation(t *testing.T) {
	base := orderFields{Phone: "98123456", Governor: "Sfax", City: "Sfax", Pack: 3}
	assert.NoError(t, ValidateStruct(&base))

	base.Pack = 4
	assert.Error(t, ValidateStruct(&base))
}

func TestOrderStatusValidation(t *testing.T) {
	base := orderFields{Phone: "98123456", Governor: "Sfax", City: "Sfax", Pack: 1, Status: "LIVREE"}
	assert.NoError(t, ValidateStruct(&base))

	base.Status = "DELIVERED"
	assert.Error(t, ValidateStruct(&base))
}

func TestGetValidationErrorsCollectsEveryOffendingField(t *testing.T) {
	empty := orderFields{}

	errs := GetValidationErrors(ValidateStruct(&empty))

	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
		assert.NotEmpty(t, e.Message)
	}

	assert.True(t, fields["phone"])
	assert.True(t, fields["governor"])
	assert.True(t, fields["city"])
	assert.True(t, fields["pack"])
	assert.Len(t, errs, 4)
}

func TestGetValidationErrorsOnNilError(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
}
