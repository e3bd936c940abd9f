// Package scrape drives a scrape run: for each configured division it walks a range of
// dates, fetches each day's docket page, parses it into case records and saves them.
//
// Every page is saved in its own batch. A failed case is logged and skipped, but more
// than MaxConsecutiveFailures failures in a row roll the page back and abort the rest of
// that division. Fetch and parse errors only skip the affected date. After a page with a
// docket is committed, the division's last processed date is advanced so that a later
// run can resume where this one stopped.
package scrape
