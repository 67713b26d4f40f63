// Package fill builds per-row replacement tables and applies them to text.
//
// Two syntaxes are understood. Placeholders embedded in document text:
//
//	Estimado/a [[ Nombre ]] [[Apellido]]
//
// and name templates used to derive output filenames:
//
//	$Apellido_$Nombre[0]
//
// Keys and field names are compared after [label.Normalize], so casing,
// surrounding whitespace and a leading '#' are not significant. Unknown
// placeholders are left in the text verbatim; unknown name template fields
// and out-of-range indexes evaluate to the empty string. All functions are
// pure and safe for concurrent use.
package fill
