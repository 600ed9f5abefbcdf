package screen

import "busmap.londonbus.dev/internal/transport"

// Banner texts shown to the user. Only the latest failure is kept.
const (
	MessageNetwork   = "Network error. Please check your internet connection."
	MessageRateLimit = "Api Limit is 2 requests/second, It may not give data."
	MessageGeneric   = "An error occurred while fetching data."
)

// FetchFailureMessage maps a catalog or arrivals failure to its banner.
// A failure that carries an upstream response gets the network banner.
func FetchFailureMessage(err error) string {
	if _, ok := transport.AsStatusError(err); ok {
		return MessageNetwork
	}
	return MessageGeneric
}

// GeocodeFailureMessage maps a geocoding failure to its banner.
// A failure that carries an upstream response is treated as rate limiting.
func GeocodeFailureMessage(err error) string {
	if _, ok := transport.AsStatusError(err); ok {
		return MessageRateLimit
	}
	return MessageGeneric
}
