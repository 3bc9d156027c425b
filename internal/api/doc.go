// Package api provides the authenticated client for the Binance margin
// available-inventory endpoint.
//
// Endpoint: GET {host}/sapi/v1/margin/available-inventory
// Auth: signed query string plus the X-MBX-APIKEY header.
//
// Every failed call comes back as a *Fault carrying the host, margin type and
// cause, so the poller can isolate it from the rest of the sweep.
package api
