package handlers

import (
	"errors"
	"net/http"

	"github.com/codedrop/codedrop-api/config"
	"github.com/codedrop/codedrop-api/databases"
)

// errorStatus maps the storage error taxonomy to HTTP statuses. Everything
// except a backing-store fault is an expected, client-correctable condition.
func errorStatus(message string, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, databases.ErrInvalidInput):
		config.ErrorStatus(message, http.StatusBadRequest, w, err)
	case errors.Is(err, databases.ErrNotFound):
		config.ErrorStatus(message, http.StatusNotFound, w, err)
	case errors.Is(err, databases.ErrAlreadyExtended):
		config.ErrorStatus(message, http.StatusBadRequest, w, err)
	case errors.Is(err, databases.ErrUnauthorized):
		config.ErrorStatus(message, http.StatusUnauthorized, w, err)
	default:
		config.ErrorStatus(message, http.StatusInternalServerError, w, err)
	}
}
