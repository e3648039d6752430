// Package physionet implements the source adapter for PhysioNet.
//
// The database listing endpoint answers either with a bare JSON array,
// which is the complete listing, or with a paginated envelope carrying
// `results` (or `databases`) and a `next` link. Both shapes are accepted.
package physionet
