// Package matching holds the donor matching rules: which blood types a donor
// can give to, whether a donor is past their cooldown, and whether a new blood
// request repeats one that is already open.
//
// Nothing in this package writes to the store. Callers persist whatever they
// decide based on the results.
package matching
