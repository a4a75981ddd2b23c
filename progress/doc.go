// Package progress keeps aggregated counters of approval requests so that a
// host can show how many actions are pending and how earlier ones ended.
package progress
