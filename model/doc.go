// Package model defines the data exchanged between the data sources, the
// templating core and the document containers.
//
// # Rows
//
// A [Dataset] is a header plus an ordered list of [Row] values. A row keeps
// its fields in column order, including duplicate or empty labels, so the
// replacement table can apply last-write-wins and the name resolver can scan
// values in the order they were read:
//
//	ds := model.NewDataset([]string{"Nombre", "Apellido"})
//	ds.AddRecord([]string{"Ana", "Diaz"})
//	ds.Rows[0].Get("Nombre") // "Ana"
//
// # Documents
//
// A [Template] is a loaded document container that can hand out any number of
// independent [Document] instances. A document exposes its text as an
// ordered list of spans; the caller rewrites spans and then serializes the
// document. Instances never share mutable state with the template or with
// each other.
package model
