// Package interval provides half-open time intervals and the merge and
// overlap primitives used for all busy/free time arithmetic.
package interval
