package pay

import "log"

// Process simulates the payment step of checkout. Real gateway integration is
// out of scope; card and mobile-money charges are assumed to succeed and
// cash-on-delivery settles at the door.
func Process(method string, amount float64) bool {
	log.Printf("Processing %s payment of %.2f", method, amount)
	return true
}
