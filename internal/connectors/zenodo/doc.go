// Package zenodo implements the source adapter for Zenodo.
//
// Records are searched with an Elasticsearch query restricted to one
// resource type (datasets by default). Anonymous clients may request at
// most 25 records per page; pagination ends once the page offset reaches
// the reported hit total.
package zenodo
