// Package schemas embeds the JSON Schemas of the files the CLI reads and writes.
package schemas

import "embed"

// Schema file names.
const (
	RankRequest = "rank_request.schema.json"
	RankResult  = "rank_result.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
