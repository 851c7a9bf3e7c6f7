package orchestrators

import "github.com/google/uuid"

// idGenerator returns gen, or random UUIDs when gen is nil.
func idGenerator(gen func() string) func() string {
	if gen != nil {
		return gen
	}
	return func() string { return uuid.New().String() }
}
