// Package auth provides cookie backed JWT sessions for a small user
// directory.
//
// Credentials:
//   - TokenService mints HS256 access/refresh pairs bound to a user id and
//     validates them. Access tokens live 30 minutes, refresh tokens 14 days.
//   - Verifier resolves the caller behind an access token presented as
//     "JWT <token>" in the Authorization header. Cookies are not read unless
//     the token lookup names them. Every failure is reported as an absent
//     result, never as an error.
//   - SessionAttacher writes a freshly minted pair into HttpOnly cookies and
//     clears them on logout. Logout does not revoke tokens already issued.
//
// Permissions:
//   - IsOwner and IsLoggedOut are pure predicates over the verified caller.
//   - Guard composes them into fiber handlers that return ErrUnauthenticated
//     or ErrForbidden for the Controller ErrorHandler to render.
//
// Activity sinks:
//   - ActivitySink receives signup, login, logout, update, and refresh events.
//     Sinks run best effort, errors are logged and never fail the request.
package auth
