// Package docs holds the Swagger document served by the swagger build.
// Regenerate with `swag init -g cmd/assemblyd/docs.go -o internal/httpapi/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Registry status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        },
        "/type": {
            "get": {
                "produces": ["application/json"],
                "summary": "Describe one type",
                "parameters": [{"type": "string", "description": "fully qualified type name", "name": "key", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TypeSummary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/types": {
            "get": {
                "produces": ["application/json"],
                "summary": "List registered types",
                "parameters": [{"type": "string", "description": "fuzzy filter on the type key", "name": "match", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TypesResponse"}}}
            }
        },
        "/watch": {
            "get": {
                "produces": ["application/x-ndjson"],
                "summary": "Watch a type",
                "parameters": [
                    {"type": "string", "description": "fully qualified type name", "name": "key", "in": "query", "required": true},
                    {"type": "boolean", "description": "stream already registered instances first", "name": "replay", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.WatchEvent"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "error": {"type": "string"}}
        },
        "types.TypeSummary": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "instances": {"type": "integer"},
                "listeners_active": {"type": "integer"},
                "listeners_paused": {"type": "integer"}
            }
        },
        "types.TypesResponse": {
            "type": "object",
            "properties": {"types": {"type": "array", "items": {"$ref": "#/definitions/types.TypeSummary"}}}
        },
        "types.WatchEvent": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "type": {"type": "string"},
                "instance": {"type": "string"},
                "error": {"type": "string"},
                "time": {"type": "string", "format": "date-time"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "types": {"type": "array", "items": {"$ref": "#/definitions/types.TypeSummary"}},
                "instances_total": {"type": "integer"},
                "listeners_total": {"type": "integer"},
                "notifications_total": {"type": "integer"},
                "observer_failures_total": {"type": "integer"},
                "uptime_seconds": {"type": "integer"},
                "started_at": {"type": "string", "format": "date-time"},
                "server_time": {"type": "string", "format": "date-time"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "assemblyd API",
	Description:      "Introspection API for the live instance registry.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
