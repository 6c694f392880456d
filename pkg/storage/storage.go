// Package storage provides the object stores the pipeline uploads finished
// infographics to: Amazon S3 for deployment, the local filesystem for
// development and offline runs. Both satisfy pipeline.Store and share its
// atomicity contract: either the object is fully visible under its URL or
// not visible at all.
package storage
