// Package config provides configuration loading, merging, and validation
// facilities for the hybrid encryption service.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetStructuredConfig] for server/key-manager
// configuration and [GetClientConfig] for client-side cache/transport
// configuration.
package config
