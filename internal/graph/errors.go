package graph

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
)

// Error is a non-2xx Graph response.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("graph: http %d", e.StatusCode)
	}
	return fmt.Sprintf("graph: http %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is maps HTTP statuses onto the shared sentinels so callers can use
// errors.Is(err, common.ErrorNotFound).
func (e *Error) Is(target error) bool {
	switch target {
	case common.ErrorNotFound:
		return e.StatusCode == http.StatusNotFound
	case common.ErrorUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsNotFound reports whether err is a Graph 404.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}
