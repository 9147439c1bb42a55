// Package feed writes syndication feeds one piece at a time.
//
// A feed file is produced by calling Header once, then ItemHeader, a write
// of the item body through ItemBody and ItemFooter for every post, and
// finally Footer. None of the calls keep state between them, so callers
// may interleave them with other work or split a feed across processes.
//
// RSS 2.0 is supported. Atom parses as a Kind but has no writer.
package feed
