// Package descriptor loads the blog-wide descriptor (blogue.toml or
// blogue.yaml) and the optional per-post metadata file and tags list.
//
// File style and script elements are resolved while loading: blog
// elements against the blog root, post elements against the post
// directory. Language tags are validated as BCP-47 and tag names must be
// non-empty and free of whitespace and control characters.
package descriptor
