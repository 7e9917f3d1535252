// Package advisor integrates the external AI advisory collaborator.
//
// The collaborator receives a question or a slice of the snapshot and
// returns free text or a JSON prediction document. Responses are parsed
// tolerantly (the JSON may be wrapped in prose); anything unparsable
// surfaces as a *ParseError that callers recover from with
// FallbackMessage. The MockClient serves development and tests without a
// network.
package advisor
