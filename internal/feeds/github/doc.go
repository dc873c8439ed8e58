// Package github provides the issue and pull-request feeds.
//
// Both feeds poll one repository through a shared paginated client with
// proactive and header-driven rate limiting. The feeds re-encode each
// API object to raw JSON so normalisers stay independent of the GitHub
// client library.
package github
