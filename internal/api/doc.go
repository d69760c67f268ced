// Package api handles incoming HTTP requests, request validation and response
// formatting. It adapts HTTP to the bouquet service: POST /generate accepts a
// form-encoded or JSON description and answers with the rendered
// presentation, the image reference and an explicit ok flag.
package api
