// Package market detects newly listed instruments.
//
// The detector keeps the last observed set of names for each pool (perpetual
// and spot) and reports the set difference on every check. The first
// successful observation of a pool after start is its baseline and reports
// nothing. A failed fetch leaves that pool's snapshot untouched.
package market
