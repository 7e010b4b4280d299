package indextable

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyCollision is returned when a record is inserted under a key that
	// is already present. Use errors.Is to test for it; the concrete error is
	// a *KeyCollisionError carrying the key.
	ErrKeyCollision = errors.New("key collision")
)

// KeyCollisionError indicates an insert with a key that is already stored.
// The table is left unchanged when it is returned.
type KeyCollisionError[K comparable] struct {
	Key K
}

func (e *KeyCollisionError[K]) Error() string {
	return fmt.Sprintf("%s: %v", ErrKeyCollision, e.Key)
}

// Is reports whether target is ErrKeyCollision.
func (e *KeyCollisionError[K]) Is(target error) bool { return target == ErrKeyCollision }
