// Package info exposes the operational endpoints of a bot server: a static
// status check, liveness and readiness probes, build metadata, and the OpenAPI
// document describing the mounted component endpoints.
//
// Mount registers every endpoint on a router in one call; see ExampleInfoHandler_Mount.
package info
