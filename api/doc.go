// Package api exposes the registry over HTTP.
//
// Public routes resolve services in the external network only:
//
//	GET /service/:id
//	GET /services/:ids
//
// Internal routes require the internal capability checked by an auth.Gate:
//
//	GET    /service/:id/:network
//	GET    /services/:ids/:network
//	GET    /@services/:network
//	GET    /@service/:id
//	PUT    /@service/:id
//	DELETE /@service/:id
//	GET    /@service/:id/:network
//	POST   /@service/:id/:network
//	DELETE /@service/:id/:network
//
// Lookups append "/v<api version>" to locations unless the request carries
// version=<anything but "true">.
package api
