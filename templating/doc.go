// Package templating fills page templates from a render Context.
//
// Placeholders are delimited by single braces; "{{" and "}}" stand for
// literal braces. The recognised placeholders are:
//
//	{language} {author} {title} {blog_name} {raw_post_name} {number}
//	{version} {styles} {scripts} {tags}
//	{data-KEY}                      post data first, then blog data
//	{date(SOURCE, FORMAT)}          SOURCE is post, now_utc or now_local
//	{tags()} {tags(CLASS)}          tag spans, optionally with a CSS class
//
// FORMAT is rfc2822, rfc3339 (with rfc_2822 and upper-case spellings) or a
// double-quoted strftime pattern. A placeholder that cannot be resolved
// aborts the render with a fault.Parse error carrying its byte offset;
// nothing is ever substituted with an empty string.
package templating
