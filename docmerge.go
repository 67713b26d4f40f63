// Package docmerge generates one document per data row by filling [[key]]
// placeholders in DOCX, ODT, PPTX, EPUB or HTML templates with row values.
//
// Basic usage:
//
//	report, warnings, err := docmerge.Open("certificado.docx").
//	    Data("alumnos.csv").
//	    OutputDir("salida").
//	    NameTemplate("$Apellido $Nombre[0]").
//	    Run(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docmerge.FormatWarnings(warnings))
//	}
//	fmt.Println(len(report.Outputs), "documents written")
//
// Placeholders and column labels match after normalization: case, a leading
// '#' and surrounding or repeated whitespace are ignored, so the column
// "# Nombre  Completo" fills [[nombre completo]].
//
// Output names come from the name template (or name column), then from the
// first non-empty value of the row, then from a numbered fallback. Names are
// reduced to [A-Za-z0-9._-] and never overwrite existing files or each
// other; clashes get a _1, _2, ... suffix.
package docmerge

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRun is a helper that wraps a call to Run and panics if the error is
// non-nil. It discards warnings.
//
// Example:
//
//	report := docmerge.MustRun(docmerge.Open("t.docx").Data("d.csv").Run(ctx))
func MustRun[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
