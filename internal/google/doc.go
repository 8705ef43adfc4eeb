// Package google provides OAuth2 authentication for the Google Calendar
// API: obtaining an authorization URL, exchanging an authorization code,
// and caching the resulting token on disk.
package google
