package api

import _ "embed"

// OpenAPISpec отдаётся роутером по /swagger/openapi.json.
//
//go:embed openapi.json
var OpenAPISpec []byte
