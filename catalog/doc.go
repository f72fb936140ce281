// Package catalog matches free-text title candidates against the
// title-to-identifier artifact produced by the offline batch job.
//
// Matching is exact over normalized keys: titles are lower-cased and
// stripped to alphanumerics before lookup, so "The Hobbit!" and
// "the hobbit" resolve identically. Fuzzy matching is out of scope.
package catalog
