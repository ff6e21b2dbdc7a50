// Package catalog records pipeline runs in a SQLite history database so past
// rips and conversions can be inspected after the fact.
package catalog
