// Package render implements driven.Renderer with text/template.
//
// The santa.tmpl and master.tmpl defaults are embedded in the binary. A
// template directory may override either file by name; files missing from
// the directory fall back to the embedded copy.
//
// Santa templates see .Giver, .Receiver, .Title, .Year and .Organizer.
// Master templates see .Pairs (sorted "Giver -> Receiver" lines), .Title,
// .Year and .Organizer.
package render
