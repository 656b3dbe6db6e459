// Package websocket pushes refresh notifications to connected
// dashboard pages. The protocol is push-only: the hub broadcasts a
// data_reloaded message whenever the tracker table is reloaded and
// clients re-fetch their charts in response.
package websocket
