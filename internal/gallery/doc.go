// Package gallery owns the displayed gallery and mediates between user
// intents and the catalog client.
//
// # Intents
//
// Each query intent is split in two so the UI loop never blocks:
//
//	req := ctrl.LoadRandom()          // on the UI loop: bumps the generation
//	res := req.Run(ctx)               // anywhere: performs the HTTP call
//	ctrl.Apply(res)                   // on the UI loop: folds the result in
//
// Controller.Do combines the last two steps for synchronous callers.
//
// SelectImage, SelectIndex, CloseDetail and SetQuery are synchronous.
// OpenUserPhotos takes the handle from the current selection and closes the
// detail view before dispatching.
//
// # Ordering
//
// Every dispatch takes a new generation number. Apply discards any result
// whose generation is older than the most recent dispatch, so a slow request
// can never overwrite the outcome of one issued after it.
//
// # Failures
//
// Failures never leave Apply. They leave Images untouched and are recorded
// as a Notice; catalog.ErrNotFound yields a NoticeNotFound with its own text.
// A successful apply clears the notice. RunSearch clears the pending query at
// dispatch, so a failed search does not restore it.
package gallery
