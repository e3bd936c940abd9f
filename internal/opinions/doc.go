// Package opinions reads the Court of Appeals opinion release search results.
//
// A release page lists the opinions filed in a date window, grouped into sections for
// opinions published in part, published opinions and unpublished opinions. Each section
// is a <p><strong>heading</strong></p> followed by a table of file date, case number,
// division, title and file contents. The search returns at most MaxResults rows, so
// callers query one month at a time and split a window that hits the limit.
package opinions
