// Package notify implements the rule-based alerting layer of the
// dashboard. A fixed, declarative rule set is re-evaluated from scratch
// against every new snapshot; notification ids are derived from the rule
// and its subject, so regeneration is idempotent. The list is capped at 5,
// read/unread state survives regeneration, and user removals stay in
// effect while the triggering condition holds.
package notify
