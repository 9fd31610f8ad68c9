// Package docs Codedrop API.
//
// Documentation of the Codedrop API.
//
//	Schemes: https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- basic
//
//	SecurityDefinitions:
//	basic:
//	  type: basic
//
// swagger:meta
package docs

import (
	"github.com/codedrop/codedrop-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/v1/store codes storeCodeEndpointID
// Stores a code snippet and returns a twelve character access code.
// responses:
//   200: storedCodeResponse

// The stored snippet record.
// swagger:response storedCodeResponse
type storedCodeResponseWrapper struct {
	// in:body
	Body models.StoredCode
}

// swagger:route GET /api/v1/retrieve/{code} codes retrieveCodeEndpointID
// Retrieves a code snippet by its access code.
// responses:
//   200: storedCodeResponse
//   404: errorResponse

// swagger:route POST /api/v1/extend codes extendCodeEndpointID
// Extends a stored snippet once by twenty four hours.
// responses:
//   200: storedCodeResponse
//   401: errorResponse

// swagger:route GET /api/v1/teachers teachers listTeachersEndpointID
// Lists all teacher records.
// responses:
//   200: teachersResponse

// All teacher records.
// swagger:response teachersResponse
type teachersResponseWrapper struct {
	// in:body
	Body []models.Teacher
}

// swagger:route GET /api/v1/files/{file_id} files getFileEndpointID
// Returns file metadata and a short-lived download URL.
// responses:
//   200: fileResponse
//   404: errorResponse

// One uploaded file's metadata.
// swagger:response fileResponse
type fileResponseWrapper struct {
	// in:body
	Body models.FileMeta
}

// The error envelope returned on any failed request.
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}
