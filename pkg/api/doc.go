// Package api is the thin HTTP wrapper over the dispatch service:
//
//	POST   /jobs          submit a bulk dispatch, answers 202 with the job ID
//	GET    /jobs          list progress snapshots of all known jobs
//	GET    /jobs/{id}     progress snapshot, 404 once evicted
//	DELETE /jobs/{id}     request cooperative cancellation, 409 if terminal
//
// Recipients arrive with rendered content; the only processing done here is
// generating QR access-pass attachments for recipients carrying an access
// code.
package api
