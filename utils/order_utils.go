package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d+-\d{1,4}$`)

// GenerateOrderNumber formats ORD-<unix millis>-<0..9999>. intn defaults to math/rand.
func GenerateOrderNumber(now time.Time, intn func(int) int) string {
	if intn == nil {
		intn = rand.Intn
	}
	return fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), intn(10000))
}

// IsOrderNumber reports whether s has the order number shape
func IsOrderNumber(s string) bool {
	return orderNumberPattern.MatchString(s)
}

// CalculateFee returns subtotal * percent / 100, rounded to 18 decimal places
func CalculateFee(subtotal, percent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(percent).Div(decimal.NewFromInt(100)).Round(18)
}

// OrderTotals computes fee and total for a subtotal
func OrderTotals(subtotal, percent decimal.Decimal) (fee, total decimal.Decimal) {
	fee = CalculateFee(subtotal, percent)
	return fee, subtotal.Add(fee)
}
