package model

import "fmt"

// All monetary amounts in this service are integer cents. Multiplying a
// cents price by an integer quantity is exact, so the total a shopper sees
// in the cart is byte-for-byte the total charged at checkout.

// FormatCents renders an amount in cents as a plain 2-decimal string,
// e.g. 2550 -> "25.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
