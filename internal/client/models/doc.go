// Package models defines the client-side data models exchanged with the
// RankRocket backend: the user profile, token responses, and the crawl/report
// payloads shown by the CLI.
package models
