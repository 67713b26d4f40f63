// Package naming derives filesystem-safe output names for generated
// documents and keeps them unique within a run.
//
// [Resolve] picks a base name for a row: the name template if it yields
// something usable, else the first usable row value, else a numbered
// fallback. [Sanitize] reduces any text to letters, digits, '.', '_' and
// '-', folding accented letters to their base letter. A [Registry] then
// appends _1, _2, ... until the name is free both in the current run and at
// the destination.
package naming
