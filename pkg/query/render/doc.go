// Package render turns typed parameters into detection-query text.
//
// # Stages
//
// A query is an ordered list of stages joined by the grammar's pipe
// separator. The first stage names the event source and is emitted bare; every
// later stage is emitted on its own line as "| <text>". Optional clauses are
// modelled as stages whose Included flag is driven by a template parameter, so
// switching a clause off removes its text and its separator together:
//
//	text, err := render.Join(
//	    render.Always("process"),
//	    render.Always(`process.name in ["chrome.exe"]`),
//	    render.When(excludeSystem, `process.user.user_name != "SYSTEM"`),
//	)
//
// # Templates
//
// Each threat-hunting pattern is a value type implementing Template. The
// Default constructors return the same parameters the hunt catalogue has
// always shipped with:
//
//	q, err := render.DefaultMultiDestinationBeaconing().Render()
//
// Templates are pure: identical inputs always produce identical text, and
// they are safe to render from any number of goroutines.
package render
