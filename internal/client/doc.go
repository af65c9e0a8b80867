// Package client provides the HTTP transport used to fetch listing pages.
//
// A Client is bound to one base URL and issues one GET per page number to
// {base}/page/{n}/. Its underlying *http.Client is shared with the paste
// decoder so both use the same timeout, User-Agent, and optional SOCKS5
// proxy.
//
// Design decision: Fetch failures are returned to the caller untouched and
// never retried here. The pipeline drops a failed page and moves on.
package client
