// Package testutil builds deterministic artifact fixtures for tests.
package testutil
