// Package post turns blog post directories into output artifacts.
//
// A post directory is named "NNN. YYYY-MM-DD[ HH-MM[-SS]] name" and holds
// a post.md body, optional metadata and tags files and any assets the
// body links to. Run generates every post of a blog tree: the HTML page
// (post header template, converted body, post footer template), the
// configured machine-readable records and feeds, copies of the linked
// assets and, when the descriptor asks for one, an index.html built from
// a center template rendered once per post. Artifacts are written atomically and only when their content
// changed.
package post
