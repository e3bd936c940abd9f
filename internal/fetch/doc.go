// Package fetch retrieves docket pages.
//
// Two fetchers are provided: HTTP, a plain GET with a descriptive User-Agent, and
// Browser, which renders the page in headless Chrome through go-rod for the cases
// where the court site only serves complete markup to a real browser. Neither retries;
// a failed fetch is reported to the caller.
package fetch
