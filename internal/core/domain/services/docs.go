// Package services holds domain logic that spans aggregates. GatewaySelector
// chooses which stored provider config a request is signed with.
package services
