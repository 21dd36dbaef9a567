// Package api adapts the rental services to HTTP. Handlers decode and
// validate request bodies, apply role and ownership rules for the caller,
// and translate service results into JSON envelopes with matching status
// codes. Mount wires every handler onto a chi router.
package api
