// Package validation contains the logic for validating
// request data.
//
// It binds request bodies through Echo, uses the `validator`
// library to enforce range rules defined in struct tags and
// converts every failure into a 400 errs.HTTPError the client
// can understand.
package validation
