// Package docs registers the OpenAPI description served at /swagger.
// Keep it in step with the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "http://www.nexconsult.com/support",
            "email": "support@nexconsult.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/browser/stats": {
            "get": {
                "description": "Get browser launch counters and lookup slot usage",
                "produces": ["application/json"],
                "tags": ["Browser"],
                "summary": "Get browser statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/cache": {
            "delete": {
                "description": "Drop every cached lookup outcome",
                "produces": ["application/json"],
                "tags": ["Cache"],
                "summary": "Clear the outcome cache",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/cache/stats": {
            "get": {
                "description": "Get outcome cache statistics",
                "produces": ["application/json"],
                "tags": ["Cache"],
                "summary": "Get cache statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/cases/batch": {
            "post": {
                "description": "Fetch up to MAX_BATCH_SIZE cases concurrently; results keep the request order",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Cases"],
                "summary": "Look up several cases",
                "parameters": [
                    {
                        "description": "Cases to look up",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.BatchLookupRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BatchLookupResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/cases/lookup": {
            "post": {
                "description": "Fetch the current status, parties, listing and order documents of a case from the court portal",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Cases"],
                "summary": "Look up a case",
                "parameters": [
                    {
                        "description": "Case to look up",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CaseQuery"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LookupResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.LookupResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.LookupResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/catalog": {
            "get": {
                "description": "List the case types and years the portal search form offers",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Get case catalog",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CatalogResponse"}}
                }
            }
        },
        "/queries": {
            "get": {
                "description": "List successful lookups, newest first",
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "List past lookups",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Maximum entries (default 50, max 500)",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.QueryListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/queries/{id}": {
            "get": {
                "description": "Get one stored lookup by id",
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Get a past lookup",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Lookup id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.QueryRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.BatchLookupRequest": {
            "type": "object",
            "required": ["queries"],
            "properties": {
                "queries": {
                    "type": "array",
                    "minItems": 1,
                    "items": {"$ref": "#/definitions/models.CaseQuery"}
                }
            }
        },
        "models.BatchLookupResponse": {
            "type": "object",
            "properties": {
                "duration_ms": {"type": "integer", "example": 15200},
                "failed": {"type": "integer", "example": 0},
                "found": {"type": "integer", "example": 1},
                "not_found": {"type": "integer", "example": 1},
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.LookupResponse"}},
                "timestamp": {"type": "string", "example": "2025-01-15T10:30:00Z"},
                "total": {"type": "integer", "example": 2}
            }
        },
        "models.CaseQuery": {
            "type": "object",
            "required": ["case_number", "case_type", "case_year"],
            "properties": {
                "case_number": {"type": "string", "example": "6768"},
                "case_type": {"type": "string", "example": "W.P.(C)"},
                "case_year": {"type": "string", "example": "2025"}
            }
        },
        "models.CaseStatusRecord": {
            "type": "object",
            "properties": {
                "document_links": {"type": "array", "items": {"type": "string"}},
                "listing_date_and_court": {"type": "string", "example": "12-Jan-2025, Court 5"},
                "order_page_url": {"type": "string", "example": "https://delhihighcourt.nic.in/orders/123"},
                "parties": {"type": "string", "example": "A vs B"},
                "status_text": {"type": "string", "example": "Pending"}
            }
        },
        "models.CatalogResponse": {
            "type": "object",
            "properties": {
                "case_types": {"type": "array", "items": {"type": "string"}},
                "case_years": {"type": "array", "items": {"type": "string"}},
                "loaded": {"type": "boolean", "example": true}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "INVALID_QUERY"},
                "error": {"type": "string", "example": "Invalid case query"},
                "message": {"type": "string", "example": "case_type is not offered by the portal"},
                "path": {"type": "string", "example": "/api/v1/cases/lookup"},
                "timestamp": {"type": "string", "example": "2025-01-15T10:30:00Z"}
            }
        },
        "models.LookupResponse": {
            "type": "object",
            "properties": {
                "cache": {"type": "boolean", "example": false},
                "duration_ms": {"type": "integer", "example": 8200},
                "fetched_at": {"type": "string", "example": "2025-01-15T10:30:00Z"},
                "message": {"type": "string"},
                "query": {"$ref": "#/definitions/models.CaseQuery"},
                "reason": {
                    "type": "string",
                    "enum": [
                        "session_unavailable",
                        "captcha_unavailable",
                        "invalid_option",
                        "element_not_interactable",
                        "element_not_found",
                        "navigation_failed",
                        "timeout",
                        "internal_error"
                    ]
                },
                "record": {"$ref": "#/definitions/models.CaseStatusRecord"},
                "status": {"type": "string", "enum": ["found", "not_found", "failure"], "example": "found"}
            }
        },
        "models.QueryListResponse": {
            "type": "object",
            "properties": {
                "queries": {"type": "array", "items": {"$ref": "#/definitions/models.QueryRecord"}},
                "total": {"type": "integer", "example": 1}
            }
        },
        "models.QueryRecord": {
            "type": "object",
            "properties": {
                "case_number": {"type": "string", "example": "6768"},
                "case_type": {"type": "string", "example": "W.P.(C)"},
                "case_year": {"type": "string", "example": "2025"},
                "created_at": {"type": "string", "example": "2025-01-15T10:30:00Z"},
                "document_links": {"type": "array", "items": {"type": "string"}},
                "id": {"type": "integer", "example": 42},
                "listing_date_and_court": {"type": "string", "example": "12-Jan-2025, Court 5"},
                "parties": {"type": "string", "example": "A vs B"},
                "status_text": {"type": "string", "example": "Pending"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Court Case Status API",
	Description:      "Looks up case status, parties, listing and order documents on the court portal",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
