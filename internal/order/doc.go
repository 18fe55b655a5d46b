// Package order places orders from carts and manages their
// fulfillment status. Creating an order consumes the source cart.
package order
