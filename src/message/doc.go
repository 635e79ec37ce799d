// Package message defines the records exchanged by murmur nodes and the codec
// that turns them into lines of JSON.
//
// Every record is an Envelope addressed from one node (or client) to another:
//
//	{"src": "n1", "dest": "c1",
//	 "body": {"type": "read_ok", "in_reply_to": 3, "messages": [1, 2]}}
//
// The body carries two optional correlation fields, msg_id and in_reply_to,
// next to a type tag that selects the Payload. Init and InitOk are always
// understood; every other payload type is registered by the active workload
// in a Registry, so the same tag (e.g. "read") can mean different things to
// different workloads.
//
// Encoding is deterministic: correlation fields are omitted when unset, and
// the codec runs in canonical mode so struct fields and map keys always come
// out in the same order.
package message
