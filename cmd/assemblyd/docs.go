package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           assemblyd API
// @version         1.0
// @description     Read-only HTTP view of a type-indexed live instance registry, with NDJSON watch streams.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
