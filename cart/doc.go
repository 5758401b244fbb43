// Package cart keeps the buyer's line items and hands the order to the
// merchant through a messaging deep link.
//
// A Session wraps one opening of the cart. Checkout formats the order message,
// starts the product conversion events in the background, opens the link and
// clears the cart. Conversion events are sent at most once per Session;
// calling Open starts a new one.
package cart
