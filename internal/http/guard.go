package httpx

import (
	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
)

// GuardDecision is the outcome of evaluating a route guard against the
// current session state. Guards are pure functions over the state so the
// routing policy can be tested without a server.
type GuardDecision int

const (
	// DecisionRender allows the handler to run.
	DecisionRender GuardDecision = iota

	// DecisionPending means the auth check has not completed, so the
	// session's status is unknown. A pending session never redirects; the
	// caller renders a neutral retry page instead.
	DecisionPending

	// DecisionRedirectLogin sends an unauthenticated visitor to the login
	// page, preserving the requested path for post-login return.
	DecisionRedirectLogin

	// DecisionRedirectHome sends an already signed-in user away from
	// visitor-only pages such as login and register.
	DecisionRedirectHome

	// DecisionForbidden means the user is signed in but lacks the required
	// role. Rendered as an unauthorized page, never a login redirect.
	DecisionForbidden

	// DecisionMisconfigured means the route itself is declared with a role
	// this service does not know. This is a programming error and fails
	// loudly rather than falling back to an allow or a deny.
	DecisionMisconfigured
)

// String returns a short name for logging.
func (d GuardDecision) String() string {
	switch d {
	case DecisionRender:
		return "render"
	case DecisionPending:
		return "pending"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectHome:
		return "redirect-home"
	case DecisionForbidden:
		return "forbidden"
	case DecisionMisconfigured:
		return "misconfigured"
	default:
		return "unknown"
	}
}

// DecideAnonOnly guards pages that only signed-out visitors should see.
// An unchecked session stays pending rather than guessing; a signed-in user
// is sent home.
//
// A nil state means no session middleware ran for this route at all. That is
// a wiring bug, not a slow check, and every guard fails it loudly instead of
// parking the request on the retry page.
func DecideAnonOnly(state *domainauth.SessionState) GuardDecision {
	if state == nil {
		return DecisionMisconfigured
	}
	if !state.CheckedAuth.IsSet() {
		return DecisionPending
	}
	if state.Authenticated {
		return DecisionRedirectHome
	}
	return DecisionRender
}

// DecideAuthenticated guards pages that require a signed-in user of any role.
// Pending wins over the login redirect: redirecting before the auth check
// completes would bounce users who are actually signed in.
func DecideAuthenticated(state *domainauth.SessionState) GuardDecision {
	if state == nil {
		return DecisionMisconfigured
	}
	if !state.CheckedAuth.IsSet() {
		return DecisionPending
	}
	if !state.Authenticated {
		return DecisionRedirectLogin
	}
	return DecisionRender
}

// DecideRole guards pages restricted to a specific role. The role comparison
// happens only after authentication is confirmed, so an unauthenticated
// visitor gets a login redirect rather than a forbidden page. An unknown
// required role is a route configuration bug and is surfaced as such.
func DecideRole(state *domainauth.SessionState, required domainauth.Role) GuardDecision {
	if state == nil {
		return DecisionMisconfigured
	}
	if !state.CheckedAuth.IsSet() {
		return DecisionPending
	}
	if !state.Authenticated {
		return DecisionRedirectLogin
	}

	switch required {
	case domainauth.RoleAdmin, domainauth.RoleUser:
	default:
		return DecisionMisconfigured
	}

	if !roleSatisfies(state.Role(), required) {
		return DecisionForbidden
	}
	return DecisionRender
}

// roleSatisfies reports whether the session role meets the requirement.
// Admin satisfies every requirement; user satisfies only user.
func roleSatisfies(have, required domainauth.Role) bool {
	if have == domainauth.RoleAdmin {
		return true
	}
	return have == required
}
