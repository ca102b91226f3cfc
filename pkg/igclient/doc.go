// Package igclient provides the main entry point for creating Instagram Graph
// API clients and OAuth helpers.
package igclient
