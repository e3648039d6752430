// Package dandi implements the source adapter for the DANDI Archive.
//
// DANDI is a Django REST API with page-number pagination. A page reports
// its results and a `next` link; a null link ends the listing.
package dandi
