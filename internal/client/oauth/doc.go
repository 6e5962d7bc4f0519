// Package oauth handles the return leg of the Google sign-in flow: parsing
// the query the backend redirects to, and a loopback listener that receives
// it on behalf of the terminal client.
package oauth
