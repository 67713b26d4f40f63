// Package dataset loads merge data from CSV and XLSX files.
//
// The first record is the header; every later record becomes a
// [model.Row] labelled with the header. Files are read completely before
// anything is returned, so decoding problems surface before any document
// is produced.
//
// CSV input is decoded with a named character encoding resolved through
// the WHATWG encoding index (utf-8, latin1, windows-1252, utf-16le, ...).
// UTF-8 input is validated and a leading byte order mark is dropped.
package dataset
