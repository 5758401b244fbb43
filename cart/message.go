package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	messageGreeting = "Olá! Gostaria de finalizar a compra dos seguintes produtos:"
	deepLinkBase    = "https://wa.me/"
	countryCode     = "55"
)

// FormatPrice renders cents as a decimal amount with a comma separator: 1500 -> "15,00".
func FormatPrice(cents int64) string {
	return strings.Replace(decimal.NewFromInt(cents).Shift(-2).StringFixed(2), ".", ",", 1)
}

// FormatMessage builds the order message sent to the merchant.
func FormatMessage(items []LineItem) string {
	lines := make([]string, 0, len(items))
	var total int64
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%dx %s - R$ %s", item.Quantity, item.Product.Title, FormatPrice(item.UnitPrice())))
		total += item.Subtotal()
	}
	return messageGreeting + "\n\n" + strings.Join(lines, "\n") + "\n\nTotal: R$ " + FormatPrice(total)
}

// PhoneDigits strips everything but digits from phone.
func PhoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// DeepLink returns the messaging link for phone carrying message. Phone
// numbers are national; the country code is prepended.
func DeepLink(phone, message string) string {
	return deepLinkBase + countryCode + PhoneDigits(phone) + "?text=" + encodeComponent(message)
}

// componentUnescaper restores the marks a URI component leaves literal.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes like a URI component: spaces become %20, not +,
// and !'()* stay literal.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
