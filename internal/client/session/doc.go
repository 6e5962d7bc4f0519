// Package session holds the client's authentication state.
//
// State moves only through the Action values defined here (LoginStart,
// LoginSuccess, LoginError, Logout, ClearError), applied by the pure Reduce
// function. A Store owns one State per running client and hands out value
// snapshots to readers.
package session
