package commands

import (
	"github.com/kartikbazzad/bunmem"
)

// Session is the shell state commands operate on.
type Session interface {
	Store() *bunmem.Store
	// Collection returns the currently selected collection, or nil if none
	// has been selected with .use yet.
	Collection() *bunmem.Collection
	Use(name string)
	CollectionName() string
}
