// Package handler wires the services into a chi router and maps
// domain errors onto the HTTP error taxonomy.
package handler
