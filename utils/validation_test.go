package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFieldValidationErrors(t *testing.T) {
	var problems FieldValidationErrors
	problems.Add("page", "must be at least 1")
	problems.Add("limit", "must be between 1 and 100")

	assert.Len(t, problems, 2)
	assert.Equal(t, "page: must be at least 1; limit: must be between 1 and 100", problems.Error())
	assert.Equal(t, []string{"must be at least 1", "must be between 1 and 100"}, problems.Messages())
}

func TestValidateEmail(t *testing.T) {
	ok, _ := ValidateEmail("buyer@example.com")
	assert.True(t, ok)

	ok, msg := ValidateEmail("")
	assert.False(t, ok)
	assert.Equal(t, "Email is required", msg)

	ok, _ = ValidateEmail("buyer@example")
	assert.False(t, ok)
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("123456")
	assert.True(t, ok)

	ok, msg := ValidatePassword("12345")
	assert.False(t, ok)
	assert.Equal(t, "Password must be at least 6 characters long", msg)
}

func TestSanitizeAndXSS(t *testing.T) {
	assert.Equal(t, "Genesis & friends", SanitizeString(`  <b onclick="x()">Genesis</b> &amp; friends `))

	ok, _ := ValidateXSS("A calm blue orb")
	assert.True(t, ok)
	ok, _ = ValidateXSS(`<script>alert(1)</script>`)
	assert.False(t, ok)
	ok, _ = ValidateXSS("javascript:void(0)")
	assert.False(t, ok)
}

func TestValidatePriceAndLength(t *testing.T) {
	assert.NoError(t, ValidatePrice(decimal.Zero))
	assert.Error(t, ValidatePrice(decimal.NewFromInt(-1)))

	assert.NoError(t, ValidateStringLength("Orb", 1, 3))
	assert.Error(t, ValidateStringLength("", 1, 3))
	assert.Error(t, ValidateStringLength("Orbs", 1, 3))
}
