package patient

import "fmt"

// NotFoundError reports that no patient has the requested ID.
type NotFoundError struct {
	ID int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("Patient with ID %d not found", e.ID)
}
