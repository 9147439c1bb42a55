// Package element models the script and style snippets injected into
// rendered pages.
//
// An Element is one of three classes: a link to an external resource, a
// literal inline text, or a file path relative to the blog root that has
// not been read yet. Script and Style wrap an Element with the markup of
// their tag so that renderers can write the head, the content and the foot
// of each element straight to a sink.
//
// Elements decode from TOML, YAML and JSON in either a compact
// "class:data" string or a verbose {class, data} table:
//
//	scripts = ["link:/js/site.js", "file:assets/inline.js"]
//	styles  = [{ class = "literal", data = "body { margin: 0; }" }]
//
// File elements are turned into literals by Resolve, which returns a new
// value and never alters the receiver.
package element
