// Package dispatch routes the decoded records of one stream.
//
// Each record goes one of three ways:
//
//	RouteDiagnostic  logrec, eventrec, exceptrec: forwarded to the logger at
//	                 the server level, never collected
//	RouteDispatch    a Handler is registered for the type: handed to it, not
//	                 collected
//	RouteCollect     everything else: appended in arrival order
//
// A handler registered for a diagnostic type is called as well. The last
// exception, or the last diagnostic at ERROR or above, is available from
// LastDiagnostic so callers can report why a request produced nothing.
package dispatch
