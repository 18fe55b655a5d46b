// Package store holds the MongoDB repositories behind the service
// interfaces, the connection dialer, and index bootstrap. Documents
// are private bson-tagged structs converted to and from the domain
// types at the package boundary.
package store
