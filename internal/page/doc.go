// Package page reads a rendered docket page with goquery and exposes it to the docket parser.
//
// The court's schedule pages carry almost no ids or classes. Every field of interest
// is inside a <strong> element, so the page's tokens are the texts of all <strong>
// elements in document order. Litigants and attorneys are plain table cells; they are
// reached by resolving the table that encloses the "Litigants:" heading.
package page
