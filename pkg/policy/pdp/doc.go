// Package pdp implements the policy decision point: given a request
// context, it checks every policy in the store's current snapshot for
// applicability and resolves the applicable subset to exactly one
// decision.
//
// Conflict resolution is deterministic and order-independent:
//
//  1. Lowest level rank wins (enterprise beats domain beats agent).
//  2. Among those, lowest priority number wins.
//  3. Among those, the most conservative effect wins
//     (deny > require_approval > allow).
//  4. Remaining ties break by ascending policy id.
//
// When no policy applies the decision is default-deny. Evaluation is a
// pure function of the request and the policy snapshot: it mutates
// nothing, blocks on nothing, and never returns an error. Malformed
// attributes degrade to "condition not satisfied", preserving
// default-deny as the universal fallback.
package pdp
