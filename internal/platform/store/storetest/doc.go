// Package storetest starts disposable backends for integration tests
//
// Helpers live behind the integration_pg and integration_redis build tags
package storetest
