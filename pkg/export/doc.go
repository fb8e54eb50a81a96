// Package export writes rendered snapshots of a mounted tree to a Store.
//
// A snapshot is the serialised host tree plus a JSON document carrying the
// observed state and the host operations recorded since the last reset.
// Two stores are provided: DirStore writes files under a directory and
// S3Store uploads objects with the AWS SDK.
package export
