/*
Package protocol is the wire form of actions.

An action travels as one JSON object: its own fields in camelCase plus a "kind"
discriminator, e.g.

	{"kind":"computedBounds","responseId":"7f3c...","bounds":[{"elementId":"n1","newBounds":{"x":0,"y":0,"width":40,"height":20}}]}

Decoding goes through a generic map so that adapters receiving already parsed
payloads (MCP arguments, HTTP bodies) can use FromMap directly.
*/
package protocol
