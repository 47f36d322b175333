// Package domain holds the ordering model: the Order aggregate with its OrderLine entities,
// the Money and Address value objects, the order events and the OrderErrors catalog.
//
// State changes return kernel Outcomes for expected failures. Nothing here performs I/O.
package domain
