// Package api implements the HTTP REST API for the integrity dashboard server.
//
// New(deps) returns an http.Handler that serves:
//
//	GET    /api/v1/health                  — compact liveness summary
//	GET    /api/v1/snapshot                — full current dataset
//	GET    /api/v1/departments             — department list; ?ids=, ?min=, ?max=, ?category=
//	GET    /api/v1/trends                  — monthly series; ?range=all|recent3|recent6|thisYear
//	GET    /api/v1/notifications           — active notifications + unread count
//	POST   /api/v1/notifications/{id}/read — mark one read
//	POST   /api/v1/notifications/read-all  — mark all read
//	DELETE /api/v1/notifications/{id}      — remove one
//	POST   /api/v1/sim/start|stop|reset    — control the live simulator
//	GET    /api/v1/sim/status              — simulator state
//	POST   /api/v1/advisor/ask             — free-text AI question
//	POST   /api/v1/advisor/predict         — three-month score forecast
//	GET    /api/v1/export/csv|report|share — CSV download, printable HTML, share text
//	GET/POST       /api/v1/bookmarks       — list / save snapshot bookmarks
//	GET/DELETE     /api/v1/bookmarks/{id}  — fetch / delete one bookmark
//
// All JSON endpoints respond with Content-Type: application/json and return
// 405 for unsupported methods. Advisory failures never surface as 5xx; the
// response degrades to a fallback text so the dashboard keeps rendering.
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
