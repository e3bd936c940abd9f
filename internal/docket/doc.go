// Package docket turns the emphasized text of a Court of Appeals docket page into case records.
//
// A docket page lists one day's consideration schedule for a division: a date header,
// the judicial panel, and a sequence of cases. Each case starts at an appellate case
// number and may carry a Superior Court reference, consolidated case numbers, a title,
// and a litigants/attorneys table. Panels can change mid-page and individual cases can
// be marked as considered without oral argument.
//
// Parsing is a single classification pass over the page tokens followed by a small
// state machine. Page-scoped state (current panel, oral-argument flag) lives in an
// immutable Context value that is passed to, and returned from, each step.
package docket
