// Package sse streams pipeline progress as Server-Sent Events.
//
// A Stream frames events onto one HTTP response. A Hub fans events out to
// watcher connections whose client ids match a glob pattern, so a run can
// be followed from a second connection while it is still in flight.
//
// # Usage
//
//	comp := sse.NewComponent("/pipeline/:id/events")
//	app.RegisterComponent(comp)
//
//	stream, err := sse.NewStream(c.Writer)
//	ev, _ := sse.NewEvent(sse.EventTurn, turn)
//	stream.Send(ev)
//	comp.Hub().BroadcastToPattern("pipeline:"+jobID+":*", ev)
package sse
