// Package handler is the first layer after the router.
//
// It binds requests, validates them with the validation
// package and calls the service layer. It is the boundary
// between HTTP and the prediction logic.
package handler
